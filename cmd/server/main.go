package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/vexabot/vexabot-dialog/internal/config"
	"github.com/vexabot/vexabot-dialog/internal/dialogue"
	"github.com/vexabot/vexabot-dialog/internal/handlers"
	"github.com/vexabot/vexabot-dialog/internal/inventory"
	"github.com/vexabot/vexabot-dialog/internal/logging"
	"github.com/vexabot/vexabot-dialog/internal/memory"
	"github.com/vexabot/vexabot-dialog/internal/nlu"
	"github.com/vexabot/vexabot-dialog/internal/transport"
)

func main() {
	// Load .env file if it exists (for development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting dialogue service",
		zap.String("service", cfg.ServiceName),
		zap.String("env", cfg.Env),
		zap.String("nats_url", cfg.NatsURL))

	// Transcript storage.
	redisStore, err := memory.NewRedisStore(cfg.RedisURL, cfg.TranscriptTTL)
	if err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}
	defer redisStore.Close()

	memoryManager := memory.NewManager(redisStore)
	defer memoryManager.Close()
	logger.Info("memory manager initialized", zap.String("redis_url", cfg.RedisURL))

	// Seat inventory and dialogue core.
	store := inventory.NewStore(inventory.DefaultSchedules(time.Now()))
	ledger := dialogue.NewLedger()
	orch := dialogue.New(store, ledger, logger)

	// NLU: LLM extraction with regex fallback, or pure regex when no key
	// is configured.
	var analyzer nlu.Analyzer = nlu.NewRegexAnalyzer()
	if cfg.OpenAIAPIKey != "" {
		model, err := nlu.NewOpenAIModel(cfg.OpenAIAPIKey, cfg.OpenAIModel)
		if err != nil {
			logger.Fatal("failed to initialize LLM", zap.Error(err))
		}
		analyzer = nlu.NewLLMAnalyzer(model, memoryManager, logger)
		logger.Info("LLM analyzer enabled", zap.String("model", cfg.OpenAIModel))
	} else {
		logger.Info("no LLM API key configured, using regex analyzer")
	}

	handler := handlers.NewTurnHandler(nlu.NewKeywordRouter(), analyzer, orch, memoryManager, logger)

	natsTransport, err := transport.NewNATSTransport(cfg, handler, logger)
	if err != nil {
		logger.Fatal("failed to initialize NATS transport", zap.Error(err))
	}
	defer natsTransport.Close()

	if err := natsTransport.Start(); err != nil {
		logger.Fatal("failed to start NATS transport", zap.Error(err))
	}

	logger.Info("dialogue service is running",
		zap.String("turn_subject", cfg.NatsTurnSubject),
		zap.String("reset_subject", cfg.NatsResetSubject),
		zap.String("status_subject", cfg.NatsStatusSubject))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logger.Info("shutting down",
		zap.String("signal", sig.String()),
		zap.Int("active_sessions", memoryManager.ActiveSessionCount()))
}
