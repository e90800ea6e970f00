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

	"github.com/Kunjal502/crisis-assitant/internal/agent"
	"github.com/Kunjal502/crisis-assitant/internal/api"
	"github.com/Kunjal502/crisis-assitant/internal/emergency"
	"github.com/Kunjal502/crisis-assitant/internal/gateway"
	"github.com/Kunjal502/crisis-assitant/internal/observability"
	"github.com/Kunjal502/crisis-assitant/pkg/config"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

func main() {
	observability.PrintBanner()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.LoadConfig("config.json")

	// Region contact tables: built-in defaults unless a file overrides them.
	contacts := emergency.NewDirectory()
	if cfg.Contacts.Path != "" {
		loaded, err := emergency.LoadDirectory(cfg.Contacts.Path)
		if err != nil {
			log.Fatalf("failed to load contact tables: %v", err)
		}
		contacts = loaded
	}

	logger := observability.NewLogger()

	// Initialize LLM (using default enabled provider)
	pName, pCfg := cfg.GetDefaultProvider()
	if pName == "" {
		log.Fatal("No enabled provider found in config")
	}

	var llm llms.Model
	var err error
	switch pName {
	case "openai", "openrouter", "groq":
		// Groq and OpenRouter speak the OpenAI wire protocol behind a
		// custom base URL.
		opts := []openai.Option{
			openai.WithToken(pCfg.APIKey),
			openai.WithModel(pCfg.Model),
		}
		if pCfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(pCfg.BaseURL))
		}
		llm, err = openai.New(opts...)
	default:
		log.Fatalf("Provider %s not yet implemented in main", pName)
	}

	if err != nil {
		log.Fatal(err)
	}

	backend := agent.NewModelCompleter(llm)
	generator := agent.NewGenerator(backend, contacts, cfg.App.Region, logger)
	guard := agent.NewGuard(cfg.Guard.MaxRounds, logger)
	runner := agent.NewRunner(generator, guard)
	reevaluator := agent.NewReevaluator(backend, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Periodic liveness event in the JSONL stream.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				logger.LogHeartbeat()
			case <-ctx.Done():
				return
			}
		}
	}()

	// Interactive walkthrough gateway (optional)
	if tgCfg, ok := cfg.GetTelegramConfig(); ok {
		tg, err := gateway.NewTelegramGateway(tgCfg.Token, runner, reevaluator, contacts, cfg.App.Region)
		if err != nil {
			log.Fatal(err)
		}
		go func() {
			if err := tg.Start(); err != nil {
				log.Printf("Telegram gateway error: %v", err)
				stop()
			}
		}()
		defer tg.Stop()
		log.Println("Telegram walkthrough gateway started")
	}

	// HTTP surface
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	api.NewHandler(generator).RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
