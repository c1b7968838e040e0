package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/modgraph/pkg/buildinfo"
	"github.com/matzehuels/modgraph/pkg/config"
	"github.com/matzehuels/modgraph/pkg/depgraph"
	"github.com/matzehuels/modgraph/pkg/errors"
	"github.com/matzehuels/modgraph/pkg/render"
)

// FormatHTML selects the interactive page.
const FormatHTML = "html"

// renderRequest is the body of POST /v1/render/{format}.
type renderRequest struct {
	Modules  *depgraph.Mapping `yaml:"modules"`
	Circular *[][]string       `yaml:"circular"`
	Config   yaml.Node         `yaml:"config"`
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Engine string         `json:"engine"`
	Error  string         `json:"error,omitempty"`
	Build  buildinfo.Info `json:"build"`
}

// handleRender handles POST /v1/render/{format}.
//
// Response:
//
//	200 OK: rendered bytes with a format-specific content type
//	400 Bad Request: malformed body, identifier, config or format
//	413 Request Entity Too Large: body exceeds max_body_bytes
//	422 Unprocessable Entity: Graphviz rejected the description
//	503 Service Unavailable: Graphviz could not be found
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if format != FormatHTML {
		if err := render.ValidateFormat(format); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	if s.cfg.Server.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxBodyBytes)
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := decodeRequest(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cfg, err := s.requestConfig(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var cycles [][]string
	switch {
	case req.Circular != nil:
		cycles = *req.Circular
	case detectCycles(r):
		cycles = depgraph.FindCycles(req.Modules)
	}

	ctx := r.Context()
	if s.cfg.Server.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Server.RenderTimeout)
		defer cancel()
	}

	var out []byte
	if format == FormatHTML {
		out, err = s.renderer.Page(ctx, req.Modules, cycles, cfg.Style())
	} else {
		out, err = s.renderer.Bytes(ctx, req.Modules, cycles, format, cfg.Style())
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// handleHealth handles GET /healthz by probing the engine.
//
// Response:
//
//	200 OK: HealthResponse{Status: "ok"}
//	503 Service Unavailable: HealthResponse{Status: "unavailable"}
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	eng := s.renderer.Engine
	if err := render.Probe(r.Context(), eng); err != nil {
		w.Header().Set("Retry-After", "30")
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status: "unavailable",
			Engine: eng.Name(),
			Error:  errors.UserMessage(err),
			Build:  buildinfo.Get(),
		})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Engine: eng.Name(), Build: buildinfo.Get()})
}

func decodeRequest(body []byte) (*renderRequest, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "request body is empty")
	}
	var req renderRequest
	if err := yaml.Unmarshal(body, &req); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request")
	}
	if req.Modules == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, `"modules" is required`)
	}
	for _, id := range req.Modules.Keys() {
		if err := errors.ValidateModuleID(id); err != nil {
			return nil, err
		}
		deps, _ := req.Modules.Deps(id)
		for _, dep := range deps {
			if err := errors.ValidateModuleID(dep); err != nil {
				return nil, err
			}
		}
	}
	return &req, nil
}

// requestConfig overlays the request's config on a copy of the server's.
func (s *Server) requestConfig(req *renderRequest) (*config.Config, error) {
	if req.Config.Kind == 0 || req.Config.Tag == "!!null" {
		return s.cfg, nil
	}
	cfg := s.cfg.Clone()
	if err := req.Config.Decode(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	cfg.GraphvizPath = s.cfg.GraphvizPath
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func detectCycles(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get("detect_cycles"))
	return v
}

func contentType(format string) string {
	switch format {
	case render.FormatSVG:
		return "image/svg+xml"
	case render.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	}
	if t := mime.TypeByExtension("." + format); t != "" {
		return t
	}
	return "application/octet-stream"
}

// statusCode maps error codes to HTTP statuses.
func statusCode(err error) int {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeEngineUnavailable:
		return http.StatusServiceUnavailable
	case errors.ErrCodeEngineExecution:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusCode(err)
	code := string(errors.GetCode(err))
	if code == "" {
		code = string(errors.ErrCodeInternal)
	}
	msg := errors.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("render failed", "err", err, "request_id", requestIDFrom(r.Context()))
		msg = "internal error"
	}
	writeJSON(w, status, ErrorResponse{
		Code:      code,
		Message:   msg,
		RequestID: requestIDFrom(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
