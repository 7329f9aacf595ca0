package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-ner-proxy/config"
	"go-ner-proxy/cronjobs"
	"go-ner-proxy/handlers"
	"go-ner-proxy/mlmodel"
	"go-ner-proxy/nlp"
	"go-ner-proxy/routes"
)

// newTagger picks the NER provider named by cfg.Provider. The returned
// close func releases provider clients that hold connections.
func newTagger(ctx context.Context, cfg *config.Config) (handlers.Tagger, func(), error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAI.APIKey == "" {
			log.Println("OPENAI_API_KEY not set, requests will fail until it is configured")
		}
		return mlmodel.NewOpenAITagger(cfg.OpenAI), func() {}, nil
	case config.ProviderGoogle:
		tagger, err := nlp.NewGoogleTagger(ctx, cfg.Google.Credentials)
		if err != nil {
			return nil, nil, err
		}
		return tagger, func() { tagger.Close() }, nil
	case config.ProviderHuggingFace:
		if cfg.HuggingFace.Token == "" {
			log.Println("HF_TOKEN not set, requests will fail until it is configured")
		}
		return mlmodel.NewClient(cfg.HuggingFace), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown provider %q", cfg.Provider)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	tagger, closeTagger, err := newTagger(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s tagger: %v", cfg.Provider, err)
	}
	defer closeTagger()
	log.Printf("NER provider: %s", tagger.Name())

	aggregator := nlp.NewAggregator(nlp.AggregatorOptions{
		PersonLabels: cfg.Aggregation.PersonLabels,
		MinNameRunes: cfg.Aggregation.MinNameRunes,
	})

	// Initialize cron jobs
	scheduler, err := cronjobs.StartKeepWarm(cfg.KeepWarmSchedule, tagger)
	if err != nil {
		log.Fatalf("Failed to start keep-warm job: %v", err)
	}
	if scheduler != nil {
		defer scheduler.Stop()
	}

	r := routes.SetupRouter(cfg.StaticDir, tagger, aggregator)
	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// in-flight requests may be waiting on the provider, so allow its full timeout
	grace := max(cfg.HuggingFace.Timeout, cfg.OpenAI.Timeout) + 5*time.Second
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
