package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"vet-assistant-relay/internal/core/errx"
	"vet-assistant-relay/internal/usecase/chat"
	logx "vet-assistant-relay/pkg/logger"
)

const (
	fieldBody = "Body"
	fieldFrom = "From"

	maxFormBytes = 1 << 20
)

// MessageHandler answers one inbound message. The returned text is sent even
// when err is non-nil.
type MessageHandler interface {
	HandleMessage(ctx context.Context, senderID, text string) (string, error)
}

type Server struct {
	handler    MessageHandler
	errorReply string
	server     *http.Server
}

func NewServer(addr string, handler MessageHandler, errorReply string) *Server {
	if errorReply == "" {
		errorReply = errx.SystemErrorMessage
	}
	s := &Server{
		handler:    handler,
		errorReply: errorReply,
	}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook", s.handleWebhook)
	mux.HandleFunc("GET /{$}", s.handleHealth)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", s.server.Addr).Msg("starting webhook server")
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("webhook server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown webhook server: %w", err)
		}
		return ctx.Err()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": "App is alive!"})
}

// handleWebhook always answers 200 with a plain-text body; the gateway relays
// the body verbatim to the sender.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	start := time.Now()

	reply := s.errorReply
	defer func() {
		if rec := recover(); rec != nil {
			logx.Error().Str("request_id", requestID).Interface("panic", rec).Msg("webhook panicked")
			reply = s.errorReply
		}
		writeText(w, reply)
	}()

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		logx.Warn().Err(err).Str("request_id", requestID).Msg("could not parse webhook form")
	}

	sender := r.PostFormValue(fieldFrom)
	if sender == "" {
		sender = chat.UnknownSender
	}
	text := r.PostFormValue(fieldBody)

	resp, err := s.handler.HandleMessage(r.Context(), sender, text)
	reply = resp
	if reply == "" {
		reply = errx.UserMessage(err, s.errorReply)
	}

	event := logx.Info()
	if err != nil && errx.KindOf(err) != errx.KindInput {
		event = logx.Warn().Err(err).Str("kind", errx.KindOf(err).String())
	}
	event.
		Str("request_id", requestID).
		Str("sender", sender).
		Dur("latency", time.Since(start)).
		Msg("webhook handled")
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}
