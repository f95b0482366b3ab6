package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/csheth/benotes/internal/catalog"
	"github.com/csheth/benotes/internal/config"
	"github.com/csheth/benotes/internal/logging"
	"github.com/csheth/benotes/internal/preview"
	"github.com/csheth/benotes/internal/resources"
	"github.com/csheth/benotes/internal/tui"
	"github.com/csheth/benotes/internal/upload"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.MustLoad()

	closer, err := logging.Configure(cfg.Logging.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer closer.Close()
	logging.SetTraceEnabled(cfg.Logging.Trace)

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("benotes needs an interactive terminal")
	}

	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	var previewer tui.PreviewLoader
	if session, err := preview.NewSession(httpClient); err != nil {
		log.Printf("preview disabled: %v", err)
	} else {
		defer func() {
			if err := session.Close(); err != nil {
				log.Printf("remove preview dir: %v", err)
			}
		}()
		previewer = preview.New(session)
	}
	log.Printf("service %s (timeout %s)", cfg.API.BaseURL, cfg.API.Timeout)

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Catalog:   cat,
			Fetcher:   resources.NewClient(cfg.API.BaseURL, httpClient),
			Uploader:  upload.NewCoordinator(cfg.API.BaseURL, httpClient),
			Previewer: previewer,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
