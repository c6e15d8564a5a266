// cmd/bizconsole/main.go
package main

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dalemusser/bizadmin/internal/console/api"
	"github.com/dalemusser/bizadmin/internal/console/app"
	"github.com/dalemusser/bizadmin/internal/console/config"
	"github.com/dalemusser/bizadmin/internal/console/prompt"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	client, err := api.New(cfg.ServerURL, cfg.Timeout, logger)
	if err != nil {
		return err
	}

	username, password, err := prompt.Terminal().Credentials(cfg.Username, cfg.Password)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	me, err := client.Login(ctx, username, password)
	cancel()
	if err != nil {
		return err
	}
	logger.Info("signed in", zap.String("username", me.Username), zap.String("role", me.Role))

	model := app.New(client, app.Options{
		Me:       me,
		DarkMode: cfg.DarkMode,
		PageSize: cfg.PageSize,
		Timeout:  cfg.Timeout,
		Logger:   logger,
	})
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()

	ctx, cancel = context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()
	if lerr := client.Logout(ctx); lerr != nil {
		logger.Warn("logout failed", zap.Error(lerr))
	}
	return err
}
