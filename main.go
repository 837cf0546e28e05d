package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"github.com/samber/lo"

	"github.com/dskvich/vetaid-telegram-bot/pkg/api"
	"github.com/dskvich/vetaid-telegram-bot/pkg/auth"
	"github.com/dskvich/vetaid-telegram-bot/pkg/database"
	"github.com/dskvich/vetaid-telegram-bot/pkg/domain"
	"github.com/dskvich/vetaid-telegram-bot/pkg/gemini"
	"github.com/dskvich/vetaid-telegram-bot/pkg/location"
	"github.com/dskvich/vetaid-telegram-bot/pkg/logger"
	"github.com/dskvich/vetaid-telegram-bot/pkg/openai"
	"github.com/dskvich/vetaid-telegram-bot/pkg/places"
	"github.com/dskvich/vetaid-telegram-bot/pkg/repository"
	"github.com/dskvich/vetaid-telegram-bot/pkg/services"
	"github.com/dskvich/vetaid-telegram-bot/pkg/sheets"
	"github.com/dskvich/vetaid-telegram-bot/pkg/telegram"
	"github.com/dskvich/vetaid-telegram-bot/pkg/workers"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"debug"`

	TelegramBotToken          string  `env:"TELEGRAM_BOT_TOKEN,required"`
	TelegramAuthorizedUserIDs []int64 `env:"TELEGRAM_AUTHORIZED_USER_IDS" envSeparator:" "`
	TelegramSendRate          float64 `env:"TELEGRAM_SEND_RATE" envDefault:"20"`
	TelegramSendBurst         int     `env:"TELEGRAM_SEND_BURST" envDefault:"5"`

	GoogleAPIKey string `env:"GOOGLE_API_KEY"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	PlacesAPIKey string `env:"PLACES_API_KEY"`
	SheetsAPIKey string `env:"SHEETS_API_KEY"`

	AIProvider  string `env:"AI_PROVIDER" envDefault:"gemini"`
	GeminiModel string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	OpenAIToken string `env:"OPEN_AI_TOKEN"`
	OpenAIModel string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	PlacesRadius int    `env:"PLACES_RADIUS" envDefault:"5000"`
	PlacesType   string `env:"PLACES_TYPE" envDefault:"veterinary_care"`

	UseTestLocation bool            `env:"USE_TEST_LOCATION" envDefault:"false"`
	TestLocation    domain.Location `env:"TEST_LOCATION" envDefault:"31.5204,74.3587"`

	SheetsSpreadsheetID string `env:"SHEETS_SPREADSHEET_ID,required"`
	SheetsSheetName     string `env:"SHEETS_SHEET_NAME" envDefault:"Volunteers"`
	SheetsRange         string `env:"SHEETS_RANGE" envDefault:"A2:C"`

	StatusClearAfter      time.Duration `env:"STATUS_CLEAR_AFTER" envDefault:"3s"`
	VolunteerItemInterval time.Duration `env:"VOLUNTEER_ITEM_INTERVAL" envDefault:"50ms"`
	SessionTTL            time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SessionSweepInterval  time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`
	HTTPTimeout           time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	PgURL    string `env:"DATABASE_URL"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	cfg, err := loadConfig(nil)
	if err != nil {
		return err
	}

	opts := *logger.DefaultOptions
	opts.Level = logger.ParseLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, &opts)))

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	workerGroup, err := setupWorkers(ctx, cfg)
	if err != nil {
		return err
	}

	return workerGroup.Start(ctx)
}

// loadConfig parses the process environment, or environ when it is not nil.
func loadConfig(environ map[string]string) (Config, error) {
	cfg := Config{}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parsing env config: %w", err)
	}

	cfg.GeminiAPIKey, _ = lo.Coalesce(cfg.GeminiAPIKey, cfg.GoogleAPIKey)
	cfg.PlacesAPIKey, _ = lo.Coalesce(cfg.PlacesAPIKey, cfg.GoogleAPIKey)
	cfg.SheetsAPIKey, _ = lo.Coalesce(cfg.SheetsAPIKey, cfg.GoogleAPIKey)

	return cfg, nil
}

func newAdvisor(cfg Config, hc *http.Client) (services.Advisor, error) {
	switch cfg.AIProvider {
	case "gemini":
		return gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, hc)
	case "openai":
		return openai.NewClient(cfg.OpenAIToken, cfg.OpenAIModel, "", hc)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
	}
}

func newLocationStore(ctx context.Context, cfg Config) (location.Store, error) {
	if cfg.PgURL == "" {
		slog.Info("DATABASE_URL is not set, shared locations are kept in memory")
		return repository.NewLocationRepository(), nil
	}

	db, err := database.NewPostgres(ctx, cfg.PgURL)
	if err != nil {
		return nil, fmt.Errorf("creating db: %w", err)
	}
	return repository.NewPgLocationRepository(db), nil
}

func setupWorkers(ctx context.Context, cfg Config) (workers.Group, error) {
	var worker workers.Worker
	var workerGroup workers.Group

	hc := &http.Client{Timeout: cfg.HTTPTimeout}

	telegramClient, err := telegram.NewClient(cfg.TelegramBotToken, cfg.TelegramSendRate, cfg.TelegramSendBurst)
	if err != nil {
		return nil, fmt.Errorf("creating telegram client: %w", err)
	}
	authenticator := auth.NewAuthenticator(cfg.TelegramAuthorizedUserIDs)

	advisor, err := newAdvisor(cfg, hc)
	if err != nil {
		return nil, fmt.Errorf("creating advisor: %w", err)
	}

	placesClient, err := places.NewClient(cfg.PlacesAPIKey, cfg.PlacesRadius, cfg.PlacesType, hc)
	if err != nil {
		return nil, fmt.Errorf("creating places client: %w", err)
	}

	sheetsClient, err := sheets.NewClient(cfg.SheetsAPIKey, cfg.SheetsSpreadsheetID, cfg.SheetsSheetName, cfg.SheetsRange, hc)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}

	locationStore, err := newLocationStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	locator := location.NewLocator(locationStore, cfg.UseTestLocation, cfg.TestLocation)

	host := telegram.NewHost(telegramClient)

	firstAidService := services.NewFirstAidService(advisor, host, cfg.SessionTTL)
	shelterService := services.NewShelterService(placesClient, locator, telegramClient, host, cfg.StatusClearAfter, cfg.SessionTTL)
	volunteerService := services.NewVolunteerService(sheetsClient, host, cfg.StatusClearAfter, cfg.VolunteerItemInterval, cfg.SessionTTL)

	handler := telegram.NewHandler(
		firstAidService,
		shelterService,
		volunteerService,
		telegramClient,
	)

	if worker, err = workers.
		NewTelegramUpdateListener(
			telegramClient,
			authenticator,
			handler,
		); err == nil {
		workerGroup = append(workerGroup, worker)
	} else {
		return nil, err
	}

	if worker, err = workers.NewAPIServer(cfg.HTTPAddr, api.NewRouter(placesClient, sheetsClient)); err == nil {
		workerGroup = append(workerGroup, worker)
	} else {
		return nil, err
	}

	if worker, err = workers.NewSessionSweeper(cfg.SessionSweepInterval, firstAidService, shelterService, volunteerService); err == nil {
		workerGroup = append(workerGroup, worker)
	} else {
		return nil, err
	}

	return workerGroup, nil
}
