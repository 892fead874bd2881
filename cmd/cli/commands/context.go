package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/carecal/internal/config"
	"github.com/jakechorley/carecal/pkg/clients/sheetsclient"
	"github.com/jakechorley/carecal/pkg/core/model"
	"github.com/jakechorley/carecal/pkg/db"
	"github.com/jakechorley/carecal/pkg/postgres"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env      string
	Cfg      *config.Config
	Database db.Database
	Postgres *postgres.DB // nil when running from a snapshot
	Logger   *zap.Logger
	Ctx      context.Context
	NoColor  bool

	sheetsClient *sheetsclient.Client
}

// SheetsClient connects to Google Sheets on first use, so commands that
// never publish never trigger the OAuth flow
func (app *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if app.sheetsClient != nil {
		return app.sheetsClient, nil
	}

	oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth client config: %w", err)
	}

	app.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(app.Ctx, oauthCfg, app.Env, app.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	app.sheetsClient = client
	return client, nil
}

// Today is the current date in the configured timezone
func (app *AppContext) Today() model.Date {
	return model.Today(app.Cfg.Location())
}
