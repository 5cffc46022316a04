package generation

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/inkwell-labs/inkwell/internal/generator"
	"github.com/inkwell-labs/inkwell/internal/templates"
	"github.com/inkwell-labs/inkwell/pkg/handlers"
	"github.com/inkwell-labs/inkwell/pkg/routes"
)

// Handler provides the caption and letter generation endpoints.
type Handler struct {
	templates templates.System
	generator generator.System
	logger    *slog.Logger
}

// CaptionRequest is the body of POST /captions/generate.
type CaptionRequest struct {
	InputText  string `json:"inputText"`
	TemplateID string `json:"templateId"`
	Platform   string `json:"platform,omitempty"`
	Tone       string `json:"tone,omitempty"`
}

// LetterRequest is the body of POST /letters/generate.
type LetterRequest struct {
	InputText  string `json:"inputText"`
	TemplateID string `json:"templateId"`
	Tone       string `json:"tone,omitempty"`
}

// NewHandler creates a Handler over the template and generator systems.
func NewHandler(tpl templates.System, gen generator.System, logger *slog.Logger) *Handler {
	return &Handler{
		templates: tpl,
		generator: gen,
		logger:    logger.With("handler", "generation"),
	}
}

// Routes returns the route groups for the generation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Children: []routes.Group{
			{
				Prefix: "/captions",
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/generate", Handler: h.GenerateCaption},
				},
			},
			{
				Prefix: "/letters",
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/generate", Handler: h.GenerateLetter},
				},
			},
		},
	}
}

// GenerateCaption produces a caption from input text, either through a
// stored template or, when no template id is supplied, through the
// analyze-then-compose platform-aware path.
func (h *Handler) GenerateCaption(w http.ResponseWriter, r *http.Request) {
	var req CaptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.InputText) == "" {
		handlers.RespondFailure(w, http.StatusBadRequest, ErrEmptyInput.Error())
		return
	}

	var prompt string
	if req.TemplateID == "" {
		prompt = h.composePrompt(r, req)
	} else {
		tpl, err := h.templates.Find(r.Context(), req.TemplateID)
		if err != nil {
			handlers.RespondFailure(w, templates.MapHTTPStatus(err), err.Error())
			return
		}

		prompt = Compile(tpl, req.InputText, Context{
			Kind:     KindCaption,
			Platform: req.Platform,
			Tone:     req.Tone,
		})
	}

	caption, err := h.generator.Generate(r.Context(), prompt)
	if err != nil {
		h.logger.Error("caption generation failed", "template", req.TemplateID, "error", err)
		handlers.RespondFailure(w, http.StatusInternalServerError, "Failed to generate caption")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"caption": caption,
	})
}

// GenerateLetter produces a letter from input text and a stored template.
func (h *Handler) GenerateLetter(w http.ResponseWriter, r *http.Request) {
	var req LetterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondFailure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.InputText) == "" {
		handlers.RespondFailure(w, http.StatusBadRequest, ErrEmptyInput.Error())
		return
	}

	tpl, err := h.templates.Find(r.Context(), req.TemplateID)
	if err != nil {
		handlers.RespondFailure(w, templates.MapHTTPStatus(err), err.Error())
		return
	}

	prompt := Compile(tpl, req.InputText, Context{
		Kind: KindLetter,
		Tone: req.Tone,
	})

	letter, err := h.generator.Generate(r.Context(), prompt)
	if err != nil {
		h.logger.Error("letter generation failed", "template", req.TemplateID, "error", err)
		handlers.RespondFailure(w, http.StatusInternalServerError, "Failed to generate letter")
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"letter":  letter,
	})
}

// composePrompt runs the content-analysis call and builds the platform
// aware caption prompt. An analysis failure degrades to the generic
// analysis rather than failing the request.
func (h *Handler) composePrompt(r *http.Request, req CaptionRequest) string {
	var analysis Analysis

	raw, err := h.generator.Generate(r.Context(), BuildAnalysisPrompt(req.InputText))
	if err != nil {
		h.logger.Warn("content analysis call failed, composing without metadata", "error", err)
		analysis = ParseAnalysis("", h.logger)
	} else {
		analysis = ParseAnalysis(raw, h.logger)
	}

	return ComposeCaptionPrompt(req.InputText, analysis, req.Platform, req.Tone)
}
