package generation_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/inkwell-labs/inkwell/internal/generation"
	"github.com/inkwell-labs/inkwell/internal/templates"
	"github.com/inkwell-labs/inkwell/pkg/routes"
)

type mockTemplates struct {
	findFn func(ctx context.Context, id string) (*templates.Template, error)
}

func (m *mockTemplates) Handler() *templates.Handler {
	return templates.NewHandler(m, discard())
}

func (m *mockTemplates) List(ctx context.Context) ([]templates.Template, error) {
	return nil, errors.New("not implemented")
}

func (m *mockTemplates) Find(ctx context.Context, id string) (*templates.Template, error) {
	return m.findFn(ctx, id)
}

func (m *mockTemplates) Create(ctx context.Context, cmd templates.CreateCommand) (*templates.Template, error) {
	return nil, errors.New("not implemented")
}

func (m *mockTemplates) Update(ctx context.Context, id string, cmd templates.UpdateCommand) (*templates.Template, error) {
	return nil, errors.New("not implemented")
}

func (m *mockTemplates) Delete(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

// mockGenerator records every prompt and replies from a scripted queue.
type mockGenerator struct {
	prompts []string
	replies []string
	err     error
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if len(m.replies) == 0 {
		return "generated text", nil
	}
	reply := m.replies[0]
	m.replies = m.replies[1:]
	return reply, nil
}

func setupGenerationMux(tpl *mockTemplates, gen *mockGenerator) *http.ServeMux {
	mux := http.NewServeMux()
	h := generation.NewHandler(tpl, gen, discard())
	routes.Register(mux, h.Routes())
	return mux
}

func postJSON(t *testing.T, mux *http.ServeMux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func letterTemplate() *templates.Template {
	return &templates.Template{
		ID:                "formal-letter",
		Name:              "Formal Letter",
		Type:              templates.KindLetter,
		Tone:              "formal",
		GlobalRules:       []string{},
		PromptInstruction: "Write a formal letter based on: {{inputText}}",
		Structure:         "Salutation → Body → Closing",
		Origin:            templates.OriginSystem,
	}
}

func TestGenerateCaptionEmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &mockGenerator{}
			mux := setupGenerationMux(&mockTemplates{}, gen)

			rec := postJSON(t, mux, "/captions/generate", generation.CaptionRequest{InputText: tt.input})

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			body := decodeEnvelope(t, rec)
			if body["success"] != false {
				t.Error("success should be false")
			}
			if body["message"] != "inputText is required" {
				t.Errorf("message = %v", body["message"])
			}
			if len(gen.prompts) != 0 {
				t.Errorf("generator invoked %d times, want 0", len(gen.prompts))
			}
		})
	}
}

func TestGenerateCaptionInvalidBody(t *testing.T) {
	mux := setupGenerationMux(&mockTemplates{}, &mockGenerator{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/captions/generate", strings.NewReader("not json"))
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGenerateCaptionWithTemplate(t *testing.T) {
	tpl := captionTemplate()
	sys := &mockTemplates{
		findFn: func(_ context.Context, id string) (*templates.Template, error) {
			if id != tpl.ID {
				return nil, templates.ErrNotFound
			}
			return tpl, nil
		},
	}
	gen := &mockGenerator{replies: []string{"A fresh caption!"}}
	mux := setupGenerationMux(sys, gen)

	rec := postJSON(t, mux, "/captions/generate", generation.CaptionRequest{
		InputText:  "our new coffee blend",
		TemplateID: tpl.ID,
		Platform:   "instagram",
		Tone:       "casual",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	if body["success"] != true {
		t.Error("success should be true")
	}
	if body["caption"] != "A fresh caption!" {
		t.Errorf("caption = %v", body["caption"])
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("generator invoked %d times, want 1", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "our new coffee blend") {
		t.Errorf("compiled prompt missing input:\n%s", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[0], "[Context: Platform=instagram, Tone=casual]") {
		t.Errorf("compiled prompt missing context:\n%s", gen.prompts[0])
	}
}

func TestGenerateCaptionUnknownTemplate(t *testing.T) {
	sys := &mockTemplates{
		findFn: func(_ context.Context, _ string) (*templates.Template, error) {
			return nil, templates.ErrNotFound
		},
	}
	gen := &mockGenerator{}
	mux := setupGenerationMux(sys, gen)

	rec := postJSON(t, mux, "/captions/generate", generation.CaptionRequest{
		InputText:  "content",
		TemplateID: "missing",
	})

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["message"] != "Template not found" {
		t.Errorf("message = %v", body["message"])
	}
	if len(gen.prompts) != 0 {
		t.Errorf("generator invoked %d times, want 0", len(gen.prompts))
	}
}

func TestGenerateCaptionTemplateless(t *testing.T) {
	gen := &mockGenerator{replies: []string{
		`{"topics":["coffee"],"highlights":["new blend"],"intent":"promotional","contentType":"announcement"}`,
		"The composed caption",
	}}
	mux := setupGenerationMux(&mockTemplates{}, gen)

	rec := postJSON(t, mux, "/captions/generate", generation.CaptionRequest{
		InputText: "try our new blend",
		Platform:  "instagram",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	if body["caption"] != "The composed caption" {
		t.Errorf("caption = %v", body["caption"])
	}

	if len(gen.prompts) != 2 {
		t.Fatalf("generator invoked %d times, want 2 (analysis then caption)", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "extract key metadata") {
		t.Errorf("first call should be the analysis prompt:\n%s", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[1], "- Primary Topics: coffee") {
		t.Errorf("second call should carry the analysis:\n%s", gen.prompts[1])
	}
}

func TestGenerateCaptionAnalysisFailureDegrades(t *testing.T) {
	calls := 0
	gen := &mockGenerator{}
	// first call errors, second succeeds
	genWrapped := generatorFunc(func(ctx context.Context, prompt string) (string, error) {
		calls++
		gen.prompts = append(gen.prompts, prompt)
		if calls == 1 {
			return "", errors.New("model unavailable")
		}
		return "fallback caption", nil
	})
	mux := http.NewServeMux()
	h := generation.NewHandler(&mockTemplates{}, genWrapped, discard())
	routes.Register(mux, h.Routes())

	rec := postJSON(t, mux, "/captions/generate", generation.CaptionRequest{InputText: "content"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (analysis failure should not fail the request)", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["caption"] != "fallback caption" {
		t.Errorf("caption = %v", body["caption"])
	}
	if !strings.Contains(gen.prompts[1], "- Primary Topics: various topics") {
		t.Errorf("compose prompt should use generic analysis:\n%s", gen.prompts[1])
	}
}

type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func TestGenerateCaptionGeneratorError(t *testing.T) {
	tpl := captionTemplate()
	sys := &mockTemplates{
		findFn: func(_ context.Context, _ string) (*templates.Template, error) {
			return tpl, nil
		},
	}
	gen := &mockGenerator{err: errors.New("quota exceeded: key sk-secret")}
	mux := setupGenerationMux(sys, gen)

	rec := postJSON(t, mux, "/captions/generate", generation.CaptionRequest{
		InputText:  "content",
		TemplateID: tpl.ID,
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["message"] != "Failed to generate caption" {
		t.Errorf("message = %v, want generic failure", body["message"])
	}
	if strings.Contains(rec.Body.String(), "sk-secret") {
		t.Error("upstream error detail leaked into response")
	}
}

func TestGenerateLetter(t *testing.T) {
	tpl := letterTemplate()
	sys := &mockTemplates{
		findFn: func(_ context.Context, id string) (*templates.Template, error) {
			if id != tpl.ID {
				return nil, templates.ErrNotFound
			}
			return tpl, nil
		},
	}
	gen := &mockGenerator{replies: []string{"Dear Sir or Madam,"}}
	mux := setupGenerationMux(sys, gen)

	rec := postJSON(t, mux, "/letters/generate", generation.LetterRequest{
		InputText:  "requesting a refund for order 42",
		TemplateID: tpl.ID,
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	if body["success"] != true {
		t.Error("success should be true")
	}
	if body["letter"] != "Dear Sir or Madam," {
		t.Errorf("letter = %v", body["letter"])
	}

	if len(gen.prompts) != 1 {
		t.Fatalf("generator invoked %d times, want 1", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], "[Context: Document Type=Letter, Tone=formal]") {
		t.Errorf("letter context missing:\n%s", gen.prompts[0])
	}
	if !strings.Contains(gen.prompts[0], "requesting a refund for order 42") {
		t.Errorf("input missing from prompt:\n%s", gen.prompts[0])
	}
}

func TestGenerateLetterEmptyInput(t *testing.T) {
	gen := &mockGenerator{}
	mux := setupGenerationMux(&mockTemplates{}, gen)

	rec := postJSON(t, mux, "/letters/generate", generation.LetterRequest{TemplateID: "formal-letter"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["message"] != "inputText is required" {
		t.Errorf("message = %v", body["message"])
	}
	if len(gen.prompts) != 0 {
		t.Errorf("generator invoked %d times, want 0", len(gen.prompts))
	}
}

func TestGenerateLetterMissingTemplate(t *testing.T) {
	sys := &mockTemplates{
		findFn: func(_ context.Context, _ string) (*templates.Template, error) {
			return nil, templates.ErrNotFound
		},
	}
	mux := setupGenerationMux(sys, &mockGenerator{})

	tests := []struct {
		name       string
		templateID string
	}{
		{"unknown id", "no-such-template"},
		{"blank id", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, mux, "/letters/generate", generation.LetterRequest{
				InputText:  "content",
				TemplateID: tt.templateID,
			})

			if rec.Code != http.StatusNotFound {
				t.Errorf("status = %d, want 404", rec.Code)
			}
		})
	}
}

func TestGenerateLetterGeneratorError(t *testing.T) {
	sys := &mockTemplates{
		findFn: func(_ context.Context, _ string) (*templates.Template, error) {
			return letterTemplate(), nil
		},
	}
	gen := &mockGenerator{err: errors.New("upstream timeout")}
	mux := setupGenerationMux(sys, gen)

	rec := postJSON(t, mux, "/letters/generate", generation.LetterRequest{
		InputText:  "content",
		TemplateID: "formal-letter",
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body["message"] != "Failed to generate letter" {
		t.Errorf("message = %v, want generic failure", body["message"])
	}
}
