// Package server exposes the assistant over HTTP and normalises every code
// path into the uniform response envelope.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/assistant/model"
	errx "github.com/RogerTapfit/tapfit-ai-sync-sub003/internal/core/error"
	logx "github.com/RogerTapfit/tapfit-ai-sync-sub003/pkg/logger"
)

// GatewayFallbackMessage is the user-facing text for non-quota gateway
// failures.
const GatewayFallbackMessage = "I'm having trouble connecting right now. Please try again in a moment."

// Chatter is the assistant surface the HTTP layer needs.
type Chatter interface {
	Chat(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error)
}

type Config struct {
	Addr            string `envconfig:"HTTP_ADDR" default:":8787"`
	ReadTimeoutSec  int    `envconfig:"HTTP_READ_TIMEOUT" default:"15"`
	WriteTimeoutSec int    `envconfig:"HTTP_WRITE_TIMEOUT" default:"120"`
}

type Server struct {
	chat     Chatter
	mediaDir string
	cfg      Config
}

func New(chat Chatter, mediaDir string, cfg Config) *Server {
	return &Server{chat: chat, mediaDir: mediaDir, cfg: cfg}
}

// Handler builds the route table; exposed separately so tests can drive it
// through httptest without binding a socket.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/api/health", s.handleHealth)
	if s.mediaDir != "" {
		mux.Handle("/media/", http.StripPrefix("/media/", http.FileServer(http.Dir(s.mediaDir))))
	}
	return corsMiddleware(mux)
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSec) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logx.Info().Str("addr", s.cfg.Addr).Msg("HTTP server starting")
	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, model.ErrorResponse{Error: "method not allowed"})
		return
	}

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "message is required"})
		return
	}

	resp, err := s.chat.Chat(r.Context(), req)
	if err != nil {
		status := errx.StatusOf(err)
		if errx.IsQuota(err) {
			writeJSON(w, status, model.ErrorResponse{Error: errx.MessageOf(err)})
			return
		}
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:    errx.MessageOf(err),
			Response: GatewayFallbackMessage,
		})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logx.Error().Err(err).Msg("Failed to encode response body")
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
