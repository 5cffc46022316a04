package kvstore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/inkwell-labs/inkwell/pkg/lifecycle"
)

// blobStore keeps documents in an Azure Blob Storage container,
// with the partition as the blob name prefix.
type blobStore struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

func newBlobStore(cfg *Config, logger *slog.Logger) (System, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create blob client: %w", err)
	}

	return &blobStore{
		client:    client,
		container: cfg.ContainerName,
		logger:    logger.With("system", "kvstore", "backend", BackendAzure),
	}, nil
}

func (s *blobStore) Start(lc *lifecycle.Coordinator) error {
	s.logger.Info("starting blob store", "container", s.container)

	lc.OnStartup(func() {
		_, err := s.client.CreateContainer(lc.Context(), s.container, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			s.logger.Error("container initialization failed", "error", err)
			return
		}
		s.logger.Info("container ready", "container", s.container)
	})

	return nil
}

func (s *blobStore) List(ctx context.Context, partition string) ([]Record, error) {
	if err := validatePartition(partition); err != nil {
		return nil, err
	}

	prefix := partition + "/"
	pager := s.client.NewListBlobsFlatPager(s.container, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	records := []Record{}
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list partition %s: %w", partition, err)
		}

		for _, item := range page.Segment.BlobItems {
			if item.Name == nil || !strings.HasSuffix(*item.Name, docExt) {
				continue
			}

			key := strings.TrimSuffix(strings.TrimPrefix(*item.Name, prefix), docExt)

			data, err := s.Get(ctx, partition, key)
			if err != nil {
				return nil, fmt.Errorf("list partition %s: %w", partition, err)
			}

			records = append(records, Record{Key: key, Data: data})
		}
	}

	return records, nil
}

func (s *blobStore) Get(ctx context.Context, partition, key string) ([]byte, error) {
	name, err := blobName(partition, key)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.DownloadStream(ctx, s.container, name, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("download %s: %w", name, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	return data, nil
}

func (s *blobStore) Put(ctx context.Context, partition, key string, data []byte) error {
	name, err := blobName(partition, key)
	if err != nil {
		return err
	}

	if _, err := s.client.UploadBuffer(ctx, s.container, name, data, nil); err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}

	return nil
}

func (s *blobStore) Delete(ctx context.Context, partition, key string) error {
	name, err := blobName(partition, key)
	if err != nil {
		return err
	}

	if _, err := s.client.DeleteBlob(ctx, s.container, name, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete %s: %w", name, err)
	}

	return nil
}

func (s *blobStore) Exists(ctx context.Context, partition, key string) (bool, error) {
	name, err := blobName(partition, key)
	if err != nil {
		return false, err
	}

	blobClient := s.client.
		ServiceClient().
		NewContainerClient(s.container).
		NewBlobClient(name)

	if _, err := blobClient.GetProperties(ctx, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check %s: %w", name, err)
	}

	return true, nil
}

func blobName(partition, key string) (string, error) {
	if err := validatePartition(partition); err != nil {
		return "", err
	}
	if err := validateKey(key); err != nil {
		return "", err
	}
	return partition + "/" + key + docExt, nil
}
