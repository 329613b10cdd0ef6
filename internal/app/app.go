package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/finflow/finflow-bot/core/bootstrap"
	corecmd "github.com/finflow/finflow-bot/core/cmd"
	tg "github.com/finflow/finflow-bot/core/telegram"
	"github.com/finflow/finflow-bot/core/telegram/router"
	"github.com/finflow/finflow-bot/internal/storage"
	"github.com/finflow/finflow-bot/internal/wizard"
)

// App holds the assembled bot: database, wizard engine and the
// Telegram transport the engine talks through.
type App struct {
	cfg       *Config
	db        *sqlx.DB
	records   *storage.Storage
	engine    *wizard.Engine
	transport *teleTransport
}

// Bootstrap initializes infrastructure and assembles the application.
func Bootstrap(cfg *Config) (*App, error) {
	res, err := bootstrap.Run(context.Background(), bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
		Seed:     storage.Seed,
	})
	if err != nil {
		return nil, err
	}

	records := storage.New(res.DB)
	transport := &teleTransport{}

	engine, err := wizard.NewEngine(wizard.NewStore(), records, transport, wizard.Config{
		Codes: cfg.Wizard.Codes(),
	})
	if err != nil {
		_ = res.DB.Close()
		return nil, fmt.Errorf("app: engine init failed: %w", err)
	}

	return &App{
		cfg:       cfg,
		db:        res.DB,
		records:   records,
		engine:    engine,
		transport: transport,
	}, nil
}

// BootstrapCarrier adapts Bootstrap to the runner's contract.
func BootstrapCarrier(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg, ok := carrier.(*Config)
	if !ok {
		return nil, fmt.Errorf("app: unexpected config type %T", carrier)
	}
	return Bootstrap(cfg)
}

// TelegramRunOptions builds the bot runtime: commands, callback routes,
// text routing into the wizard and lifecycle hooks.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	reg := tg.NewRegistry()
	a.registerCommands(reg)
	if err := a.registerCallbacks(reg); err != nil {
		return tg.RunOptions{}, err
	}
	reg.SetTextFallback(a.idleHint)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a.fsm(), reg, router.TextOptions{
		UnknownText: a.idleHint,
	})...)

	return tg.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Middlewares: tg.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt tg.Runtime) error {
			a.transport.Bind(rt.Bot)
			go a.engine.Store().RunSweeper(ctx)
			return nil
		},
		OnStop: func(ctx context.Context, rt tg.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
