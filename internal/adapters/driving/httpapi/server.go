// Package httpapi exposes the ingestion and answering pipeline over two
// JSON endpoints: POST /api/ingest (multipart) and POST /api/ask.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"ragserver/internal/core/domain"
	"ragserver/internal/core/ports/driving"
	"ragserver/internal/logger"
)

// MaxUploadBytes bounds the size of an uploaded PDF.
const MaxUploadBytes = 25 << 20 // 25 MB

// Server wires the HTTP surface to the driving ports.
type Server struct {
	ingest driving.IngestService
	answer driving.AnswerService
	srv    *http.Server
}

// New creates a server listening on addr.
func New(ingest driving.IngestService, answer driving.AnswerService, addr string) *Server {
	s := &Server{
		ingest: ingest,
		answer: answer,
	}
	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		// No WriteTimeout: provider calls legitimately take a while.
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/ingest", s.handleIngest)
	mux.HandleFunc("POST /api/ask", s.handleAsk)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// ListenAndServe runs the server until Shutdown is called.
func (s *Server) ListenAndServe() error {
	logger.Info("listening on %s", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// askRequest is the /api/ask request body.
type askRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
}

// errorResponse is the uniform failure body.
type errorResponse struct {
	Error string   `json:"error"`
	Notes []string `json:"notes,omitempty"`
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)

	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "expected a multipart form: " + err.Error()})
		return
	}

	req := driving.IngestRequest{
		Text:     r.FormValue("text"),
		VideoURL: r.FormValue("url"),
	}

	file, header, err := r.FormFile("pdf")
	switch {
	case err == nil:
		tmpPath, saveErr := saveUpload(file)
		file.Close()
		if saveErr != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not store upload: " + saveErr.Error()})
			return
		}
		// Best-effort cleanup once the request is done.
		defer func() { _ = os.Remove(tmpPath) }()
		req.PDFPath = tmpPath
		req.PDFName = header.Filename
	case errors.Is(err, http.ErrMissingFile):
		// No upload; fine.
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid pdf upload: " + err.Error()})
		return
	}

	result, err := s.ingest.Ingest(r.Context(), req)
	if err != nil {
		s.writeIngestError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeIngestError(w http.ResponseWriter, err error) {
	var noContent *domain.NoContentError
	if errors.As(err, &noContent) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: "no extractable content found; paste text, upload a text-based PDF, or use a video with captions",
			Notes: noContent.Notes,
		})
		return
	}

	logger.Error("ingest failed: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}

	if strings.TrimSpace(req.SessionID) == "" || strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "session_id and query are required"})
		return
	}

	answer, err := s.answer.Ask(r.Context(), req.SessionID, req.Query)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown session; ingest content first"})
			return
		}
		logger.Error("ask failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

// saveUpload copies the uploaded file to a temporary path for extraction.
func saveUpload(file io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "ragserver-*.pdf")
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("write response: %v", err)
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}
