package templates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/inkwell-labs/inkwell/pkg/kvstore"
)

// Storage partitions. The partitions are never merged: a scan of the
// system partition can never be reached by a mutation path.
const (
	PartitionSystem = "system"
	PartitionUser   = "user"
)

// Defaults applied to user templates created with missing fields.
const (
	DefaultName      = "Untitled Template"
	DefaultTone      = "professional"
	DefaultStructure = "Opening + Body + Conclusion"
)

type store struct {
	kv     kvstore.System
	logger *slog.Logger

	// mu serializes user-partition read-modify-write cycles; combined
	// with the version field this closes the last-write-wins race.
	mu sync.Mutex

	// systemIDs caches the system partition's id set so protection holds
	// even when a stale or type-confused record claims a user origin.
	systemOnce sync.Once
	systemIDs  map[string]bool
	systemErr  error
}

// New creates a template store backed by the given document store.
func New(kv kvstore.System, logger *slog.Logger) System {
	return &store{
		kv:     kv,
		logger: logger.With("system", "templates"),
	}
}

func (s *store) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *store) List(ctx context.Context) ([]Template, error) {
	var system, user []Template

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		system, err = s.listPartition(gctx, PartitionSystem)
		return err
	})
	g.Go(func() (err error) {
		user, err = s.listPartition(gctx, PartitionUser)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return append(system, user...), nil
}

func (s *store) Find(ctx context.Context, id string) (*Template, error) {
	if id == "" {
		return nil, ErrNotFound
	}

	for _, partition := range []string{PartitionSystem, PartitionUser} {
		data, err := s.kv.Get(ctx, partition, id)
		if err != nil {
			if errors.Is(err, kvstore.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("find template %s: %w", id, err)
		}

		t, err := decodeTemplate(data, partitionOrigin(partition))
		if err != nil {
			return nil, err
		}
		return &t, nil
	}

	return nil, ErrNotFound
}

func (s *store) Create(ctx context.Context, cmd CreateCommand) (*Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := cmd.ID
	if id == "" {
		id = uuid.NewString()
	} else if exists, err := s.anyExists(ctx, id); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrDuplicate
	}

	now := time.Now().UTC()
	t := Template{
		ID:                id,
		Name:              cmd.Name,
		Type:              cmd.Type,
		Tone:              cmd.Tone,
		Layout:            cmd.Layout,
		GlobalRules:       cmd.GlobalRules,
		PromptInstruction: cmd.PromptInstruction,
		Structure:         cmd.Structure,
		Origin:            OriginUser,
		Version:           1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	applyCreateDefaults(&t, cmd)

	if err := Validate(t); err != nil {
		return nil, err
	}

	if err := s.put(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("template created", "id", t.ID, "name", t.Name, "type", t.Type)
	return &t, nil
}

func (s *store) Update(ctx context.Context, id string, cmd UpdateCommand) (*Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardSystem(ctx, id); err != nil {
		return nil, err
	}

	data, err := s.kv.Get(ctx, PartitionUser, id)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update template %s: %w", id, err)
	}

	t, err := decodeTemplate(data, OriginUser)
	if err != nil {
		return nil, err
	}

	if cmd.Version != nil && *cmd.Version != t.Version {
		return nil, ErrConflict
	}

	applyUpdate(&t, cmd)

	// id and origin are frozen regardless of what the merge carried
	t.ID = id
	t.Origin = OriginUser
	t.Version++
	t.UpdatedAt = time.Now().UTC()

	if err := Validate(t); err != nil {
		return nil, err
	}

	if err := s.put(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("template updated", "id", t.ID, "version", t.Version)
	return &t, nil
}

func (s *store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.guardSystem(ctx, id); err != nil {
		return err
	}

	if err := s.kv.Delete(ctx, PartitionUser, id); err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete template %s: %w", id, err)
	}

	s.logger.Info("template deleted", "id", id)
	return nil
}

func (s *store) listPartition(ctx context.Context, partition string) ([]Template, error) {
	records, err := s.kv.List(ctx, partition)
	if err != nil {
		return nil, fmt.Errorf("list %s templates: %w", partition, err)
	}

	origin := partitionOrigin(partition)
	out := make([]Template, 0, len(records))
	for _, record := range records {
		t, err := decodeTemplate(record.Data, origin)
		if err != nil {
			s.logger.Warn("skipping unreadable template", "partition", partition, "key", record.Key, "error", err)
			continue
		}
		out = append(out, t)
	}

	return out, nil
}

// guardSystem rejects mutation of system templates. Partition membership
// is the primary check; the cached system-id set backs it up so a record
// that leaked into the user partition under a system id stays protected.
func (s *store) guardSystem(ctx context.Context, id string) error {
	ids, err := s.systemIDSet(ctx)
	if err != nil {
		return err
	}
	if ids[id] {
		return ErrForbidden
	}

	exists, err := s.kv.Exists(ctx, PartitionSystem, id)
	if err != nil {
		return fmt.Errorf("check system partition for %s: %w", id, err)
	}
	if exists {
		return ErrForbidden
	}

	return nil
}

func (s *store) systemIDSet(ctx context.Context) (map[string]bool, error) {
	s.systemOnce.Do(func() {
		records, err := s.kv.List(ctx, PartitionSystem)
		if err != nil {
			s.systemErr = fmt.Errorf("cache system template ids: %w", err)
			return
		}

		s.systemIDs = make(map[string]bool, len(records))
		for _, record := range records {
			s.systemIDs[record.Key] = true
		}
	})

	return s.systemIDs, s.systemErr
}

func (s *store) anyExists(ctx context.Context, id string) (bool, error) {
	for _, partition := range []string{PartitionSystem, PartitionUser} {
		exists, err := s.kv.Exists(ctx, partition, id)
		if err != nil {
			return false, fmt.Errorf("check template %s: %w", id, err)
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}

func (s *store) put(ctx context.Context, t Template) error {
	data, err := encodeTemplate(t)
	if err != nil {
		return err
	}

	if err := s.kv.Put(ctx, PartitionUser, t.ID, data); err != nil {
		return fmt.Errorf("persist template %s: %w", t.ID, err)
	}

	return nil
}

func applyCreateDefaults(t *Template, cmd CreateCommand) {
	if t.Name == "" {
		t.Name = DefaultName
	}
	if t.Type == "" {
		t.Type = cmd.Category
	}
	if t.Type == "" {
		t.Type = KindCaption
	}
	if t.Tone == "" {
		t.Tone = DefaultTone
	}
	if t.PromptInstruction == "" {
		t.PromptInstruction = cmd.Content
	}
	if len(t.Layout) == 0 {
		if t.Structure == "" {
			t.Structure = DefaultStructure
		}
		t.Layout = ParseStructure(t.Structure)
	}
	if t.GlobalRules == nil {
		t.GlobalRules = []string{}
	}

	normalizeLayout(t.Layout)
	t.Structure = DeriveStructure(t.Layout)
}

func applyUpdate(t *Template, cmd UpdateCommand) {
	if cmd.Name != nil {
		t.Name = *cmd.Name
	}
	if cmd.Type != nil {
		t.Type = *cmd.Type
	}
	if cmd.Tone != nil {
		t.Tone = *cmd.Tone
	}
	if cmd.PromptInstruction != nil {
		t.PromptInstruction = *cmd.PromptInstruction
	}
	if cmd.Content != nil && cmd.PromptInstruction == nil {
		t.PromptInstruction = *cmd.Content
	}
	if cmd.Layout != nil {
		t.Layout = cmd.Layout
	} else if cmd.Structure != nil {
		t.Layout = ParseStructure(*cmd.Structure)
	}
	if cmd.GlobalRules != nil {
		t.GlobalRules = cmd.GlobalRules
	}

	normalizeLayout(t.Layout)
	t.Structure = DeriveStructure(t.Layout)
}

func partitionOrigin(partition string) Origin {
	if partition == PartitionSystem {
		return OriginSystem
	}
	return OriginUser
}
