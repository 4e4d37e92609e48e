package main

import (
	"chaparelay/internal/observability"
	"chaparelay/internal/payments"
	"chaparelay/internal/ratelimiter"
	"context"
	"expvar"
	"fmt"
	"log"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	defaultRequests := 200
	defaultEnabled := false

	requestsPerTimeFrame := defaultRequests
	if val, exists := os.LookupEnv("RATELIMITER_REQUESTS_COUNT"); exists {
		if parsedVal, err := strconv.Atoi(val); err == nil {
			requestsPerTimeFrame = parsedVal
		} else {
			fmt.Println("Invalid RATELIMITER_REQUESTS_COUNT, defaulting to", defaultRequests)
		}
	}

	enabled := defaultEnabled
	if val, exists := os.LookupEnv("RATE_LIMITER_ENABLED"); exists {
		if parsedVal, err := strconv.ParseBool(val); err == nil {
			enabled = parsedVal
		} else {
			fmt.Println("Invalid RATE_LIMITER_ENABLED, defaulting to", defaultEnabled)
		}
	}

	return ratelimiter.Config{
		RequestsPerTimeFrame: requestsPerTimeFrame,
		TimeFrame:            5 * time.Second,
		Enabled:              enabled,
	}
}

// NewLogger creates a new zap logger with color.
func NewLogger() (*zap.SugaredLogger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)

	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), zapcore.InfoLevel)

	return zap.New(core).Sugar(), nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

var version = "1.0.0"

//	@title			Chapa Payment Gateway API
//	@description	Relays payment initialization and verification to Chapa and receives its webhooks.

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@BasePath	/

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	otelEnabled, _ := strconv.ParseBool(os.Getenv("OTEL_ENABLED"))

	cfg := config{
		addr:   ":" + getEnv("PORT", "5000"),
		env:    getEnv("ENV", "development"),
		apiURL: getEnv("EXTERNAL_URL", "localhost:5000"),
		chapa: payments.ChapaConfig{
			SecretKey:   os.Getenv("CHAPA_SECRET_KEY"),
			BaseURL:     getEnv("CHAPA_BASE_URL", payments.DefaultBaseURL),
			CallbackURL: getEnv("CHAPA_CALLBACK_URL", payments.DefaultCallbackURL),
			ReturnURL:   getEnv("CHAPA_RETURN_URL", payments.DefaultReturnURL),
		},
		rateLimiter: LoadRateLimiterConfig(),
		otelEnabled: otelEnabled,
	}

	// Logger
	logger, err := NewLogger()
	if err != nil {
		fmt.Println("Error creating logger:", err)
		return
	}
	defer logger.Sync()

	if cfg.chapa.SecretKey == "" {
		logger.Fatal("CHAPA_SECRET_KEY is not set")
	}

	if cfg.otelEnabled {
		shutdown, err := observability.Setup(context.Background(), "chapa-relay")
		if err != nil {
			logger.Fatal(err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Errorw("otel shutdown", "error", err)
			}
		}()
		logger.Info("opentelemetry enabled")
	}

	// Chapa client, owned here and handed to the relay
	gateway := payments.NewChapaClient(cfg.chapa, logger)

	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	app := &application{
		config:      cfg,
		logger:      logger,
		gateway:     gateway,
		rateLimiter: rateLimiter,
	}

	//Metrics collected http://localhost:5000/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	if err := app.run(mux); err != nil {
		logger.Errorw("server error", "error", err)
	}
}
