// Package server initializes and runs the main application server.
// It wires the blob storage backend, credential and conversation services,
// the completion client and the HTTP frontend, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/synogpt/synogpt/internal/llm"
	"github.com/synogpt/synogpt/internal/logging"
	"github.com/synogpt/synogpt/internal/server/blob"
	"github.com/synogpt/synogpt/internal/server/chat"
	"github.com/synogpt/synogpt/internal/server/config"
	"github.com/synogpt/synogpt/internal/server/conversations"
	"github.com/synogpt/synogpt/internal/server/credentials"
	"github.com/synogpt/synogpt/internal/server/web"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	credentials *credentials.Service
	chatService *chat.Service
	sessions    *chat.Sessions
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	store, err := blob.NewStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	creds := credentials.NewService(store, cfg.ConfigObjectKey, logger)
	if err := creds.Load(ctx); err != nil {
		return nil, fmt.Errorf("credentials load error: %w", err)
	}

	completer, err := llm.NewClient(cfg.CompletionEndpoint, cfg.CompletionAPIKey, cfg.CompletionAPIVersion)
	if err != nil {
		return nil, fmt.Errorf("completion client init error: %w", err)
	}

	history := conversations.NewStore(store, cfg.ConversationsObjectKey, cfg.HistoryLimit, logger)
	chatService := chat.NewService(completer, history, cfg.Model, cfg.MaxResponseTokens, cfg.Temperature, logger)

	return &App{
		config:      cfg,
		logger:      logger,
		credentials: creds,
		chatService: chatService,
		sessions:    chat.NewSessions(),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := web.NewServer(app.config.EndpointAddr, app.logger, app.credentials, app.sessions, app.chatService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

}
