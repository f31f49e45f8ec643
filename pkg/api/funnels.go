package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/funnelchart/pkg/errors"
	"github.com/matzehuels/funnelchart/pkg/funnel"
	"github.com/matzehuels/funnelchart/pkg/pipeline"
	"github.com/matzehuels/funnelchart/pkg/reveal"
	"github.com/matzehuels/funnelchart/pkg/settings"
)

// funnelRequest is the body of POST /v1/funnels. Rows may be given
// instead of a raw table.
type funnelRequest struct {
	pipeline.Options
	Rows     []funnel.Row `json:"rows,omitempty"`
	Document string       `json:"document,omitempty"`
}

type funnelResponse struct {
	ID        string            `json:"id"`
	InputHash string            `json:"input_hash"`
	Layout    funnel.Layout     `json:"layout"`
	RevealMs  int64             `json:"reveal_ms"`
	Cached    cacheResponse     `json:"cached"`
	Artifacts map[string][]byte `json:"artifacts"`
}

type cacheResponse struct {
	Build  bool `json:"build"`
	Render bool `json:"render"`
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

func (s *Server) handleFunnel(w http.ResponseWriter, r *http.Request) {
	var req funnelRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts := req.Options
	if len(opts.Table) == 0 && len(req.Rows) > 0 {
		opts.Table = rowsTable(req.Rows)
	}

	raw := r.URL.Query().Get("format")
	if raw != "" {
		format := strings.ToLower(raw)
		if err := pipeline.ValidateFormat(format); err != nil {
			s.writeError(w, r, err)
			return
		}
		opts.Formats = []string{format}
	}

	if err := s.applyDocumentSpeed(r, &req, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if raw != "" {
		format := opts.Formats[0]
		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("X-Funnel-Id", result.Layout.ID)
		w.Header().Set("X-Reveal-Ms", strconv.FormatInt(result.Stats.RevealDuration.Milliseconds(), 10))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(result.Artifacts[format])
		return
	}

	writeJSON(w, http.StatusOK, funnelResponse{
		ID:        result.Layout.ID,
		InputHash: result.InputHash,
		Layout:    result.Layout,
		RevealMs:  result.Stats.RevealDuration.Milliseconds(),
		Cached:    cacheResponse{Build: result.CacheInfo.BuildHit, Render: result.CacheInfo.RenderHit},
		Artifacts: result.Artifacts,
	})
}

// applyDocumentSpeed derives the reveal speed from the document's
// animation speed setting when the request does not set one.
func (s *Server) applyDocumentSpeed(r *http.Request, req *funnelRequest, opts *pipeline.Options) error {
	if req.Document == "" || opts.Speed > 0 {
		return nil
	}
	if s.settings == nil {
		return errors.New(errors.ErrCodeUnsupported, "document settings are not configured")
	}
	mult, err := settings.GetOr(r.Context(), s.settings, req.Document, settings.AnimationSpeed, 1)
	if err != nil {
		return err
	}
	opts.Speed = reveal.SpeedFromSetting(mult)
	return nil
}

func rowsTable(rows []funnel.Row) [][]any {
	table := make([][]any, len(rows))
	for i, row := range rows {
		table[i] = []any{row.Label, row.Value}
	}
	return table
}

func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "document settings are not configured"))
		return
	}
	all, err := s.settings.All(r.Context(), chi.URLParam(r, "doc"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"document": chi.URLParam(r, "doc"), "settings": all})
}

type settingRequest struct {
	Value *float64 `json:"value"`
}

func (s *Server) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	if s.settings == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "document settings are not configured"))
		return
	}
	var req settingRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Value == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "value is required"))
		return
	}
	doc, name := chi.URLParam(r, "doc"), chi.URLParam(r, "name")
	if err := s.settings.Set(r.Context(), doc, name, *req.Value); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"document":   doc,
		"name":       name,
		"value":      *req.Value,
		"updated_at": time.Now().UTC(),
	})
}
