// Package web is the HTTP presentation layer: the embedded single-page chat
// UI, the login/OTP endpoints, the sidebar history API, and the streaming
// chat endpoint (server-sent events).
package web

import (
	"context"
	"net/http"
	"time"

	"github.com/synogpt/synogpt/internal/logging"
	"github.com/synogpt/synogpt/internal/server/chat"
	"github.com/synogpt/synogpt/internal/server/credentials"
)

// Credentials is the slice of the credential service the handlers need.
type Credentials interface {
	Authenticate(ctx context.Context, username, password string) (*credentials.User, error)
	EnsureOTPSecret(ctx context.Context, username string) (secret string, created bool, err error)
	Cookie() credentials.Cookie
}

type Server struct {
	address  string
	logger   logging.Logger
	creds    Credentials
	sessions *chat.Sessions
	chat     *chat.Service
	handler  http.Handler
}

func NewServer(address string, logger logging.Logger, creds Credentials, sessions *chat.Sessions, chatSvc *chat.Service) *Server {
	s := &Server{
		address:  address,
		logger:   logger.With("module", "web"),
		creds:    creds,
		sessions: sessions,
		chat:     chatSvc,
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)

	mux.Handle("GET /api/session", s.requireLogin(s.handleSession))
	mux.Handle("GET /api/otp/qr.png", s.requireLogin(s.handleOTPQR))
	mux.Handle("POST /api/otp/verify", s.requireLogin(s.handleOTPVerify))

	mux.Handle("GET /api/history", s.requireOTP(s.handleHistory))
	mux.Handle("POST /api/conversations/select", s.requireOTP(s.handleSelect))
	mux.Handle("POST /api/chat/new", s.requireOTP(s.handleNewChat))
	mux.Handle("POST /api/chat", s.requireOTP(s.handleChat))

	return s.withRequestLog(mux)
}

func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.address,
		Handler: s.handler,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
