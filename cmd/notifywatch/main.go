// Command notifywatch is a terminal client that keeps a student's
// notification feed on screen and refreshes it in the background.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yigit/studyhub/internal/client"
	"github.com/yigit/studyhub/internal/pkg/logger"
	"github.com/yigit/studyhub/internal/poller"
	"github.com/yigit/studyhub/internal/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "notifywatch: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	// The terminal belongs to the view, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	log := logger.Configure(logger.Config{Level: logger.ParseLevel(cfg.LogLevel), Output: out})

	api := client.New(cfg.Server, cfg.Token)
	if cfg.Token == "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		resp, err := api.Login(ctx, cfg.Email, cfg.Password)
		cancel()
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		log.Info().Int64("studentID", resp.Student.ID).Msg("Logged in")
	}

	p := poller.New(api, poller.Options{
		Interval: cfg.Interval,
		Logger:   log.With().Str("component", "poller").Logger(),
	})
	if err := p.Start(context.Background()); err != nil {
		return err
	}
	defer p.Stop()

	if _, err := tea.NewProgram(tui.New(p), tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running view: %w", err)
	}
	return nil
}
