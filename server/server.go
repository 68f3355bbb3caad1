// Package server exposes the tool registry over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/rgonek/telegraph-extract/converter"
	"github.com/rgonek/telegraph-extract/mdconverter"
	"github.com/rgonek/telegraph-extract/tools"
)

const maxBodyBytes = 4 << 20

// Options configures the server.
type Options struct {
	Name           string
	Instructions   string
	AllowedOrigins []string
}

// Server routes tool calls and direct conversions.
type Server struct {
	router    chi.Router
	opts      Options
	registry  *tools.Registry
	converter *converter.Converter
	importer  *mdconverter.Converter
	log       zerolog.Logger
}

// New creates the server and its routes.
func New(opts Options, registry *tools.Registry, conv *converter.Converter, importer *mdconverter.Converter, log zerolog.Logger) *Server {
	s := &Server{
		opts:      opts,
		registry:  registry,
		converter: conv,
		importer:  importer,
		log:       log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/tools", s.handleListTools)
	r.Post("/tools/{name}", s.handleCallTool)
	r.Post("/openai/tool_calls", s.handleOpenAIToolCalls)
	r.Post("/convert", s.handleConvert)
	r.Post("/import/markdown", s.handleImportMarkdown)

	s.router = r
}

type toolsResponse struct {
	Name         string        `json:"name"`
	Instructions string        `json:"instructions,omitempty"`
	Tools        []tools.Meta  `json:"tools"`
	OpenAI       []openai.Tool `json:"openai_tools"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, toolsResponse{
		Name:         s.opts.Name,
		Instructions: s.opts.Instructions,
		Tools:        s.registry.Catalog(),
		OpenAI:       s.registry.OpenAITools(),
	})
}

func (s *Server) handleCallTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	body, ok := s.readBody(w, r)
	if !ok {
		return
	}
	if len(body) > 0 && !json.Valid(body) {
		respondError(w, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	out, err := s.registry.Call(r.Context(), name, body)
	if err != nil {
		if errors.Is(err, tools.ErrUnknownTool) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		if errors.Is(err, tools.ErrInvalidArguments) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log.Error().Err(err).Str("tool", name).Msg("tool call failed")
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) handleOpenAIToolCalls(w http.ResponseWriter, r *http.Request) {
	var calls []openai.ToolCall
	if !s.decodeBody(w, r, &calls) {
		return
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(calls))
	for _, call := range calls {
		messages = append(messages, s.registry.CallOpenAI(r.Context(), call))
	}
	respondJSON(w, http.StatusOK, messages)
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	result, err := s.converter.ConvertJSON(body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleImportMarkdown(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	result, err := s.importer.Convert(string(body))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return nil, false
	}
	return body, true
}

func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	body, ok := s.readBody(w, r)
	if !ok {
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
