package main

import (
	"context"
	"crypto/tls"
	_ "embed"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/captureclient/demo-engine/cmd/mainconfig"
	"github.com/captureclient/demo-engine/internal/api/router"
	appconfig "github.com/captureclient/demo-engine/internal/config"
	"github.com/captureclient/demo-engine/internal/demo"
	"github.com/captureclient/demo-engine/internal/llm"
	"github.com/captureclient/demo-engine/internal/observability/metrics"
	"github.com/captureclient/demo-engine/internal/ratelimit"
	"github.com/captureclient/demo-engine/internal/webchat"
	"github.com/captureclient/demo-engine/pkg/logging"
)

//go:embed widget.js
var widgetJS []byte

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	var logOpts []logging.Option
	if cfg.Env == "development" {
		logOpts = append(logOpts, logging.Pretty())
	}
	logger := logging.New(cfg.LogLevel, logOpts...)
	logger.Info("starting demo-engine API server", "env", cfg.Env, "port", cfg.Port)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	demoMetrics := metrics.NewDemoMetrics(registry)

	client := buildCompletionClient(cfg, logger)

	chatHandler := webchat.NewHandler(widgetJS, logger)
	sessions := demo.NewRegistry(func(_ string, bt demo.BusinessType) *demo.Engine {
		return demo.NewEngine(client, demo.Config{
			BusinessType:       bt,
			Model:              cfg.BedrockModelID,
			MaxTokens:          int32(cfg.LLMMaxTokens),
			Temperature:        float32(cfg.LLMTemperature),
			LLMTimeout:         cfg.LLMTimeout,
			Typewriter:         typewriterConfig(cfg),
			FieldFlashDuration: cfg.FieldFlashDuration,
			ResetOnTypeSwitch:  cfg.ResetOnTypeSwitch,
			OnUpdate:           chatHandler.PushState,
			Logger:             logger,
			Metrics:            demoMetrics,
		})
	}, cfg.SessionIdleTTL, logger, demoMetrics)
	defer sessions.Close()
	chatHandler.AttachRegistry(sessions)

	r := router.New(&router.Config{
		Logger:             logger,
		Demo:               chatHandler,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit:          buildRateLimit(cfg, logger),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // WebSocket sessions hold the connection
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	logger.Info("server stopped")
}

// buildCompletionClient selects the provider chain: Bedrock primary with
// Gemini fallback when both are configured, either one alone otherwise, and
// scripted replies when no credentials are present so the demo still runs
// locally.
func buildCompletionClient(cfg *appconfig.Config, logger *logging.Logger) llm.Client {
	scripted := llm.NewScriptedClient(demo.ScriptedResponses(), demo.DefaultScriptedResponse)

	var bedrock llm.Client
	if cfg.BedrockModelID != "" && cfg.LLMProvider != "gemini" {
		awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		bedrock = llm.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg))
		logger.Info("bedrock completion client configured", "model_id", cfg.BedrockModelID)
	}

	var gemini llm.Client
	if cfg.GeminiAPIKey != "" && cfg.LLMProvider != "bedrock" {
		g, err := llm.NewGeminiClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to init gemini client", "error", err)
			os.Exit(1)
		}
		gemini = g
		logger.Info("gemini completion client configured", "model_id", cfg.GeminiModelID)
	}

	switch {
	case bedrock != nil && gemini != nil:
		return llm.NewFallbackClient(bedrock, gemini, logger)
	case bedrock != nil:
		return llm.NewFallbackClient(bedrock, scripted, logger)
	case gemini != nil:
		return llm.NewFallbackClient(gemini, scripted, logger)
	default:
		logger.Warn("no completion provider configured, using scripted replies")
		return scripted
	}
}

func buildRateLimit(cfg *appconfig.Config, logger *logging.Logger) func(http.Handler) http.Handler {
	if cfg.RedisAddr == "" {
		logger.Info("rate limiting with in-process limiter",
			"limit", cfg.RateLimitRequests, "window", cfg.RateLimitWindow)
		return ratelimit.NewMemoryLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow).Middleware
	}

	opts := &goredis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	rdb := goredis.NewClient(opts)
	logger.Info("rate limiting with redis",
		"addr", cfg.RedisAddr, "limit", cfg.RateLimitRequests, "window", cfg.RateLimitWindow)
	return ratelimit.NewLimiter(rdb, cfg.RateLimitRequests, cfg.RateLimitWindow, logger).Middleware
}

func typewriterConfig(cfg *appconfig.Config) demo.TypewriterConfig {
	tw := demo.DefaultTypewriterConfig()
	if cfg.TypingCharDelay > 0 {
		tw.CharDelay = cfg.TypingCharDelay
	}
	tw.StartDelay = cfg.TypingStartDelay
	if cfg.TypingGranularity == string(demo.GranularityWord) {
		tw.Granularity = demo.GranularityWord
	}
	return tw
}
