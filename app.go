package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chxlky/trello-card-automation/database"
	"github.com/chxlky/trello-card-automation/integrations"
	"github.com/chxlky/trello-card-automation/internal/automation"
	"github.com/chxlky/trello-card-automation/internal/config"
	"github.com/chxlky/trello-card-automation/internal/extractor"
	"go.uber.org/zap"
)

type app struct {
	cfg     *config.Config
	service *automation.Service
	store   *database.Store
	sqlDB   *sql.DB
}

// newApp wires the pipeline from configuration.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	db, err := database.Init(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}

	trelloClient := integrations.NewTrelloClient(cfg.Trello.APIKey, cfg.Trello.APIToken, cfg.Trello.BoardID)
	trelloClient.BaseURL = cfg.Trello.BaseURL

	// Without a generator every run uses the fallback fields.
	var generator extractor.Generator
	if cfg.Gemini.APIKey != "" {
		gemini, err := integrations.NewGeminiGenerator(ctx, integrations.GeminiConfig{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		})
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		generator = gemini
	} else {
		zap.L().Warn("gemini.api_key is not set; card fields will be taken from the raw text")
	}

	var opts []automation.Option
	if cfg.Google.Enabled {
		serviceAccount, err := cfg.Google.ServiceAccountJSON()
		if err != nil {
			sqlDB.Close()
			return nil, err
		}
		calClient, err := integrations.NewCalendarClient(ctx, integrations.CalendarConfig{
			CalendarID:         cfg.Google.CalendarID,
			ServiceAccountJSON: serviceAccount,
		})
		if err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to initialise Google Calendar client: %w", err)
		}
		zap.L().Info("Successfully authenticated with Google Calendar API.")
		opts = append(opts, automation.WithCalendar(calClient))
	}

	store := database.NewStore(db)
	svc := automation.NewService(extractor.New(generator), trelloClient, store, opts...)

	return &app{cfg: cfg, service: svc, store: store, sqlDB: sqlDB}, nil
}

func (a *app) Close() {
	if err := a.sqlDB.Close(); err != nil {
		zap.L().Error("Error closing database", zap.Error(err))
		return
	}
	zap.L().Info("Database connection closed.")
}
