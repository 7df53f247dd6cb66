package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/fredke/backend/internal/config"
	"github.com/zhouzirui/fredke/backend/internal/handler"
	"github.com/zhouzirui/fredke/backend/internal/service/ai"
	"github.com/zhouzirui/fredke/backend/internal/service/chat"
	"github.com/zhouzirui/fredke/backend/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("failed to open message store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("warning: failed to close message store: %v", err)
		}
	}()

	generator := newGenerator(ctx, cfg.AI)
	hub := chat.NewHub()
	chatService := chat.NewService(store, generator, hub)

	router := handler.NewRouter(chatService, hub, cfg.Server.AllowedOrigins)

	startServer(ctx, cfg.Server, router)
}

// newGenerator falls back to a disabled generator so history endpoints keep working without credentials.
func newGenerator(ctx context.Context, aiCfg config.AIConfig) chat.Generator {
	if !aiCfg.Enabled() {
		log.Println("Ark 凭证未配置，跳过网站生成功能初始化")
		return ai.Disabled{}
	}

	chatModel, err := aiCfg.NewChatModel(ctx)
	if err != nil {
		log.Printf("warning: failed to create chat model: %v", err)
		return ai.Disabled{}
	}

	temperature := float32(aiCfg.Temperature)
	generator, err := ai.NewGenerator(ctx, chatModel, ai.Options{
		Temperature: &temperature,
		MaxTokens:   aiCfg.MaxTokens,
		Timeout:     aiCfg.Timeout,
	})
	if err != nil {
		log.Printf("warning: failed to initialize generator: %v", err)
		return ai.Disabled{}
	}

	log.Println("AI generator initialized successfully")
	return generator
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Fred.ke backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Printf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
