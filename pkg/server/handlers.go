package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/chartlayout/pkg/buildinfo"
	"github.com/matzehuels/chartlayout/pkg/chartdoc"
	"github.com/matzehuels/chartlayout/pkg/errors"
	"github.com/matzehuels/chartlayout/pkg/pipeline"
	"github.com/matzehuels/chartlayout/pkg/store"
)

// =============================================================================
// Health
// =============================================================================

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

// =============================================================================
// Layouts
// =============================================================================

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	chart, err := readChart(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := sizeOptions(r, chart)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.runner.Layout(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Save(r.Context(), &l); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/layouts/"+l.ID)
	writeJSON(w, http.StatusCreated, l)
}

type listResponse struct {
	Layouts []layoutSummary `json:"layouts"`
}

type layoutSummary struct {
	ID        string  `json:"id"`
	Kind      string  `json:"kind"`
	Title     string  `json:"title,omitempty"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	CreatedAt string  `json:"created_at"`
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ls, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := listResponse{Layouts: make([]layoutSummary, len(ls))}
	for i, l := range ls {
		resp.Layouts[i] = layoutSummary{
			ID:        l.ID,
			Kind:      l.Kind,
			Title:     l.Title,
			Width:     l.Width,
			Height:    l.Height,
			CreatedAt: l.CreatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	l, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenderLayout(w http.ResponseWriter, r *http.Request) {
	l, err := s.lookup(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := chi.URLParam(r, "format")
	opts, err := renderOptions(r, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	artifacts, err := s.runner.RenderLayout(r.Context(), *l, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, artifacts[format])
}

func (s *Server) lookup(r *http.Request) (*chartdoc.Layout, error) {
	id := chi.URLParam(r, "id")
	if err := store.ValidateID(id); err != nil {
		return nil, err
	}
	return s.store.Get(r.Context(), id)
}

// =============================================================================
// One-shot Render and Batch
// =============================================================================

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	chart, err := readChart(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := chi.URLParam(r, "format")
	opts, err := renderOptions(r, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	size, err := sizeOptions(r, chart)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Chart, opts.Width, opts.Height = size.Chart, size.Width, size.Height

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeArtifact(w, format, res.Artifacts[format])
}

type batchResponse struct {
	Layouts []chartdoc.Layout `json:"layouts"`
}

// handleBatch lays out a JSON array of chart documents. Nothing is stored.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var charts []json.RawMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&charts); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidData, err, "decode batch"))
		return
	}
	jobs := make([]pipeline.Options, len(charts))
	for i, raw := range charts {
		chart, err := chartdoc.DecodeChart(raw, chartdoc.FormatJSON)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.GetCode(err), err, "chart %d", i))
			return
		}
		if !chart.Inline() {
			s.writeError(w, r, errors.New(errors.ErrCodeUnsupportedInput, "chart %d references data files", i))
			return
		}
		jobs[i] = pipeline.Options{Chart: chart, Formats: []string{pipeline.FormatJSON}}
	}
	results, err := s.runner.ExecuteBatch(r.Context(), jobs, s.BatchLimit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := batchResponse{Layouts: make([]chartdoc.Layout, len(results))}
	for i, res := range results {
		resp.Layouts[i] = res.Layout
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Request Parsing
// =============================================================================

// readChart decodes the request body as a chart document.
func readChart(r *http.Request) (*chartdoc.Chart, error) {
	format, err := documentFormat(r)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidData, err, "read body")
	}
	if len(raw) > maxBodyBytes {
		return nil, errors.New(errors.ErrCodeInvalidData, "body exceeds %d bytes", maxBodyBytes)
	}
	chart, err := chartdoc.DecodeChart(raw, format)
	if err != nil {
		return nil, err
	}
	if !chart.Inline() {
		return nil, errors.New(errors.ErrCodeUnsupportedInput, "data files cannot be read by the server, send rows inline")
	}
	return chart, nil
}

// documentFormat picks the document format from ?format= or Content-Type.
func documentFormat(r *http.Request) (string, error) {
	if f := r.URL.Query().Get("format"); f != "" {
		switch f {
		case chartdoc.FormatJSON, chartdoc.FormatYAML, chartdoc.FormatTOML:
			return f, nil
		}
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", f)
	}
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return chartdoc.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidFormat, err, "content type")
	}
	switch {
	case mt == "application/json" || strings.HasSuffix(mt, "+json"):
		return chartdoc.FormatJSON, nil
	case strings.Contains(mt, "yaml"):
		return chartdoc.FormatYAML, nil
	case strings.Contains(mt, "toml"):
		return chartdoc.FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported content type %q", mt)
}

func sizeOptions(r *http.Request, chart *chartdoc.Chart) (pipeline.Options, error) {
	opts := pipeline.Options{Chart: chart}
	var err error
	if opts.Width, err = queryFloat(r, "width"); err != nil {
		return opts, err
	}
	if opts.Height, err = queryFloat(r, "height"); err != nil {
		return opts, err
	}
	return opts, nil
}

func renderOptions(r *http.Request, format string) (pipeline.Options, error) {
	if err := errors.ValidateFormat(format); err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Formats:    []string{format},
		Background: r.URL.Query().Get("background"),
		Hover:      r.URL.Query().Get("hover") == "true",
	}
	var err error
	if opts.Scale, err = queryFloat(r, "scale"); err != nil {
		return opts, err
	}
	if opts.Scroll, err = queryFloat(r, "scroll"); err != nil {
		return opts, err
	}
	return opts, nil
}

func queryFloat(r *http.Request, name string) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidSetting, err, "query parameter %s", name)
	}
	return f, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidSetting, err, "query parameter %s", name)
	}
	return n, nil
}

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatJSON: "application/json",
}

func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
