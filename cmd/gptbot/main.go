// Command gptbot relays Telegram messages to the chat service, one stateless
// exchange per message, and serves Prometheus metrics next to it.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/nexra-gpt/internal/cache"
	"github.com/kitbuilder587/nexra-gpt/internal/cache/memory"
	"github.com/kitbuilder587/nexra-gpt/internal/config"
	"github.com/kitbuilder587/nexra-gpt/internal/llm/nexra"
	"github.com/kitbuilder587/nexra-gpt/internal/metrics"
	"github.com/kitbuilder587/nexra-gpt/internal/service"
	"github.com/kitbuilder587/nexra-gpt/internal/telegram"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateBot(); err != nil {
		return err
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)

	client := nexra.New(nexra.Config{
		BaseURL:      cfg.Nexra.BaseURL,
		APIKey:       cfg.Nexra.APIKey,
		Model:        cfg.Nexra.Model,
		Timeout:      cfg.Nexra.HTTPTimeout,
		PollInterval: cfg.Nexra.PollInterval,
		PollTimeout:  cfg.Nexra.Timeout,
	}, logger.Named("nexra"), m)

	var responseCache cache.Cache
	if cfg.Cache.Type == "memory" {
		c := memory.NewWithContext(ctx)
		defer c.Stop()
		responseCache = c
	}

	chatSvc := service.NewChatService(service.ChatServiceDeps{
		LLM:     client,
		Cache:   responseCache,
		Logger:  logger.Named("chat"),
		Metrics: m,
		Config: service.ChatConfig{
			SystemPrompt: cfg.SystemPrompt,
			DefaultModel: cfg.Nexra.Model,
			CacheTTL:     cfg.Cache.TTL,
		},
	})

	bot, err := telegram.New(telegram.BotConfig{
		Token:        cfg.Telegram.Token,
		Debug:        cfg.Telegram.Debug,
		DefaultModel: cfg.Nexra.Model,
	}, chatSvc, logger.Named("telegram"), m)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := bot.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metricsMux(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.Info("metrics server listening", zap.String("addr", cfg.Metrics.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	logger.Info("gptbot started",
		zap.String("model", cfg.Nexra.Model),
		zap.String("cache", cfg.Cache.Type),
	)

	if err := g.Wait(); err != nil {
		logger.Error("gptbot stopped with error", zap.Error(err))
		return err
	}

	logger.Info("gptbot stopped")
	return nil
}

func metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(prometheus.DefaultGatherer))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}
