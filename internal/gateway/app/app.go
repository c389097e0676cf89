package app

import (
	"context"
	"fmt"
	"log"

	"propalytiq/internal/analysis"
	"propalytiq/internal/gateway/config"
	"propalytiq/internal/gateway/handler"
	"propalytiq/internal/gateway/middleware"
	"propalytiq/internal/gateway/repository/report"
	"propalytiq/internal/gateway/repository/snapshot"
	"propalytiq/internal/gateway/server"
	llmclient "propalytiq/internal/llmClient"
)

type App struct {
	server      *server.Server
	reportStore report.Store
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	client, err := newLLMClient(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to init model client: %w", err)
	}

	reportStore, err := newReportStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init report store: %w", err)
	}

	svc := analysis.NewService(client, cfg.LLM.Model, cfg.LLM.ScrapeModel, newSnapshotStore(cfg))
	verifier := middleware.NewSupabaseVerifier(cfg.Supabase.URL, cfg.Supabase.AnonKey)

	aiHandler := handler.NewAIHandler(svc, client, cfg.LLM.Model)
	reportHandler := handler.NewReportHandler(reportStore)

	mux := server.NewMux(aiHandler, reportHandler, verifier)

	return &App{
		server:      server.New(cfg.Port, mux),
		reportStore: reportStore,
	}, nil
}

func newLLMClient(ctx context.Context, cfg config.LLMConfig) (llmclient.Client, error) {
	switch cfg.Provider {
	case "gemini":
		return llmclient.NewGeminiClient(ctx)
	case "openai", "":
		return llmclient.NewOpenAIClient(cfg.APIKey)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}

func newReportStore(cfg *config.Config) (report.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Printf("DATABASE_URL not set, reports held in memory")
		return report.NewMemoryStore(), nil
	}
	return report.NewPostgresStore(cfg.DatabaseURL)
}

func newSnapshotStore(cfg *config.Config) analysis.SnapshotStore {
	if !cfg.Snapshot.Enabled {
		return nil
	}
	store, err := snapshot.NewS3Store(snapshot.S3Config{
		Endpoint:  cfg.Snapshot.Endpoint,
		Region:    cfg.Snapshot.Region,
		AccessKey: cfg.Snapshot.AccessKey,
		SecretKey: cfg.Snapshot.SecretKey,
		Bucket:    cfg.Snapshot.Bucket,
		UseSSL:    cfg.Snapshot.UseSSL,
	})
	if err != nil {
		log.Printf("snapshot store disabled: %v", err)
		return nil
	}
	return store
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if cerr := a.reportStore.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
