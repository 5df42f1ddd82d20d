// Package web exposes the checker as an HTTP service: audit runs, exception
// adjustment, stored-analysis lookup, and live progress over WebSocket.
// The response layer owns JSON-safety coercion — missing slices and maps are
// defaulted here, not in the engine.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/krdstools/krds-checker/pkg/analysis"
	"github.com/krdstools/krds-checker/pkg/analyzer"
	"github.com/krdstools/krds-checker/pkg/exception"
	"github.com/krdstools/krds-checker/pkg/kwcag"
	"github.com/krdstools/krds-checker/pkg/signal"
	"github.com/krdstools/krds-checker/pkg/store"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local development
	},
}

// Server serves the checker API.
type Server struct {
	addr   string
	source signal.Source
	store  *store.Store // nil when persistence is disabled

	clients      map[*websocket.Conn]bool
	clientsMutex sync.RWMutex
	server       *http.Server
}

// NewServer creates the API server. source collects page signals for
// requests that do not carry them inline; st may be nil to disable
// persistence.
func NewServer(addr string, source signal.Source, st *store.Store) *Server {
	if source == nil {
		source = signal.NewHTTPSource()
	}
	return &Server{
		addr:    addr,
		source:  source,
		store:   st,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Start starts the HTTP server and blocks until the context is cancelled or
// the listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	if !s.isPortAvailable() {
		return fmt.Errorf("address %s is already in use", s.addr)
	}

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Handler exposes the route table for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/analyze", s.handleAnalyze)
	mux.HandleFunc("/api/exceptions/apply", s.handleApplyExceptions)
	mux.HandleFunc("/api/analyses", s.handleListAnalyses)
	mux.HandleFunc("/api/analyses/", s.handleGetAnalysis)
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

func (s *Server) isPortAvailable() bool {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return false
	}
	ln.Close()
	return true
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "krds-checker",
		"status":  "ok",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok"}
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}
		status["database"] = "ok"
	}
	writeJSON(w, http.StatusOK, status)
}

// AnalyzeRequest is the audit request body. Signals may be supplied inline
// by an external browser runner; when absent the server collects them
// itself. AxeResults is the raw accessibility report, optional.
type AnalyzeRequest struct {
	URL        string              `json:"url"`
	Viewport   string              `json:"viewport,omitempty"`
	Signals    *signal.PageSignals `json:"signals,omitempty"`
	AxeResults *kwcag.AxeResults   `json:"axeResults,omitempty"`
}

// AnalyzeResponse wraps the assembled result with its storage id, when
// persistence is enabled.
type AnalyzeResponse struct {
	AnalysisID string           `json:"analysisId,omitempty"`
	Result     *analysis.Result `json:"result"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}
	if req.Viewport == "" {
		req.Viewport = "desktop"
	}

	src := s.source
	if req.Signals != nil {
		src = &signal.Static{Signals: *req.Signals}
	}

	a := analyzer.New(nil, &wsProgressWriter{server: s})
	result, err := a.Analyze(r.Context(), src, req.URL, req.Viewport, req.AxeResults)
	if err != nil {
		s.broadcast(Update{Type: "error", Data: map[string]string{"message": err.Error()}})
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	resp := AnalyzeResponse{Result: sanitize(result)}
	if s.store != nil {
		id, err := s.store.SaveAnalysis(r.Context(), result)
		if err != nil {
			log.Printf("failed to persist analysis: %v", err)
		} else {
			resp.AnalysisID = id
		}
	}

	s.broadcast(Update{Type: "complete", Data: map[string]any{
		"url":          result.URL,
		"overallScore": result.OverallScore,
	}})
	writeJSON(w, http.StatusOK, resp)
}

// ApplyRequest is the exception-adjustment request body. Either AnalysisID
// (requires persistence) or an inline Analysis must be supplied.
type ApplyRequest struct {
	AnalysisID  string              `json:"analysisId,omitempty"`
	Analysis    *analysis.Result    `json:"analysis,omitempty"`
	Exceptions  []exception.Request `json:"exceptions"`
	ChecklistID string              `json:"checklistId,omitempty"`
}

func (s *Server) handleApplyExceptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	original := req.Analysis
	if original == nil {
		if req.AnalysisID == "" {
			http.Error(w, "analysis or analysisId is required", http.StatusBadRequest)
			return
		}
		if s.store == nil {
			http.Error(w, "analysisId lookup requires persistence", http.StatusBadRequest)
			return
		}
		stored, err := s.store.GetAnalysis(r.Context(), req.AnalysisID)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "analysis not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		original = stored
	}

	adjusted := exception.Adjust(original, req.Exceptions, req.ChecklistID)

	if s.store != nil && adjusted.ExceptionInfo != nil {
		if err := s.store.SaveExceptionAudit(r.Context(), req.AnalysisID, adjusted.ExceptionInfo); err != nil {
			log.Printf("failed to persist exception audit: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		AnalysisID: req.AnalysisID,
		Result:     sanitize(adjusted),
	})
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		http.Error(w, "persistence is not configured", http.StatusNotFound)
		return
	}

	summaries, err := s.store.ListRecent(r.Context(), 20)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if summaries == nil {
		summaries = []store.AnalysisSummary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.store == nil {
		http.Error(w, "persistence is not configured", http.StatusNotFound)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/analyses/")
	if id == "" || strings.Contains(id, "/") {
		http.NotFound(w, r)
		return
	}

	result, err := s.store.GetAnalysis(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "analysis not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, AnalyzeResponse{AnalysisID: id, Result: sanitize(result)})
}

// handleWebSocket handles WebSocket connections for live audit updates.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	s.clientsMutex.Lock()
	s.clients[conn] = true
	s.clientsMutex.Unlock()

	go func() {
		defer func() {
			s.clientsMutex.Lock()
			delete(s.clients, conn)
			s.clientsMutex.Unlock()
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// Update is a WebSocket progress message.
type Update struct {
	Type string `json:"type"` // "info", "phase_start", "phase_end", "complete", "error"
	Data any    `json:"data"`
}

// broadcast sends an update to all connected WebSocket clients.
func (s *Server) broadcast(msg Update) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("failed to marshal update: %v", err)
		return
	}

	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	for client := range s.clients {
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("failed to send update to client: %v", err)
		}
	}
}

// wsProgressWriter adapts the WebSocket broadcast to ux.ProgressWriter.
type wsProgressWriter struct {
	server *Server
}

func (w *wsProgressWriter) Info(format string, args ...interface{}) {
	w.server.broadcast(Update{Type: "info", Data: map[string]string{
		"message": fmt.Sprintf(format, args...),
	}})
}

func (w *wsProgressWriter) Error(format string, args ...interface{}) {
	w.server.broadcast(Update{Type: "error", Data: map[string]string{
		"message": fmt.Sprintf(format, args...),
	}})
}

func (w *wsProgressWriter) StartPhase(phaseName string) {
	w.server.broadcast(Update{Type: "phase_start", Data: map[string]string{"phase": phaseName}})
}

func (w *wsProgressWriter) EndPhase() {
	w.server.broadcast(Update{Type: "phase_end", Data: map[string]string{}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
