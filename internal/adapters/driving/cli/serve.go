package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ragserver/internal/adapters/driven/ai"
	"ragserver/internal/adapters/driven/captions/youtube"
	"ragserver/internal/adapters/driven/extract/pdftotext"
	memstore "ragserver/internal/adapters/driven/sessionstore/memory"
	sqlstore "ragserver/internal/adapters/driven/sessionstore/sqlite"
	"ragserver/internal/adapters/driven/vector/qdrant"
	"ragserver/internal/adapters/driving/httpapi"
	"ragserver/internal/config"
	"ragserver/internal/core/ports/driven"
	"ragserver/internal/core/services"
	"ragserver/internal/logger"
	"ragserver/internal/splitter"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	// .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	embedder, err := ai.CreateEmbeddingService(cfg.Embedding)
	if err != nil {
		return err
	}

	llm, err := ai.CreateLLMService(cfg.LLM)
	if err != nil {
		return err
	}
	if llm == nil {
		logger.Warn("no LLM credential configured; /api/ask will fail until one is set")
	} else {
		logger.Info("llm: %s", llm.ModelName())
	}
	logger.Info("embeddings: %s (%d dims)", embedder.ModelName(), embedder.Dimensions())

	sessions, closeSessions, err := buildSessionStore(cfg.Sessions)
	if err != nil {
		return err
	}
	defer closeSessions()

	split := splitter.New(
		splitter.WithChunkSize(cfg.Chunk.Size),
		splitter.WithOverlap(cfg.Chunk.Overlap),
	)

	gateway := services.NewIndexGateway(embedder, qdrant.New(qdrant.Config{
		URL:    cfg.Qdrant.URL,
		APIKey: cfg.Qdrant.APIKey,
	}))

	normalizer := services.NewNormalizerService(
		pdftotext.New(),
		youtube.New(youtube.Config{}),
		cfg.CaptionLang,
	)

	ingest := services.NewIngestService(normalizer, split, gateway, sessions, cfg.Collection, cfg.PerSessionCollections)
	answer := services.NewAnswerService(sessions, gateway, llm, cfg.TopK)

	server := httpapi.New(ingest, answer, fmt.Sprintf(":%d", cfg.Port))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func buildSessionStore(cfg config.SessionsConfig) (driven.SessionStore, func(), error) {
	switch cfg.Backend {
	case "", "memory":
		return memstore.New(), func() {}, nil
	case "sqlite":
		store, err := sqlstore.New(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}
}
