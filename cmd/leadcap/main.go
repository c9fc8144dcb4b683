// Command leadcap is a client for the lead capture API. It lists and adds
// leads from the console, imports them from CSV, and serves the capture page
// in the terminal or over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadcap/cmd/leadcap/ui"
	"leadcap/internal/config"
	"leadcap/internal/leadapi"
	"leadcap/internal/logging"
	"leadcap/internal/page"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	apiBase    string
	apiKey     string
	language   string
	verbose    bool
	timeout    time.Duration

	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "leadcap",
	Short: "leadcap - lead capture client",
	Long: `leadcap talks to a lead capture API (GET /leads, POST /lead).

Run without arguments to open the interactive capture page.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd, isInteractive(cmd))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runPage,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVar(&apiBase, "api-base", "", "Lead API base URL (or set LEADCAP_API_BASE)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Lead API key (or set LEADCAP_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&language, "lang", "", "Message language: pt-BR, en")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request API timeout (default from config, 30s)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(maskCmd)
	rootCmd.AddCommand(pageCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// shownError marks an error the page view already put on screen as a status
// message.
type shownError struct{ err error }

func (e shownError) Error() string { return e.err.Error() }
func (e shownError) Unwrap() error { return e.err }

// reportError prints err unless the view already showed it.
func reportError(w io.Writer, err error) {
	var shown shownError
	if errors.As(err, &shown) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

// isInteractive reports whether cmd takes over the terminal.
func isInteractive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "page"
}

// setup resolves configuration (file < .env < environment < flags) and
// initializes logging.
func setup(cmd *cobra.Command, interactive bool) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, loaded)
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = loaded

	if err := logging.Initialize(cfg.Logging, verbose, interactive); err != nil {
		return err
	}
	logger = logging.Get(logging.CategoryCLI)
	logger.Debug("configuration resolved",
		zap.String("api_base", cfg.BaseURL()),
		zap.Bool("api_key_set", cfg.API.APIKey != ""),
		zap.String("language", cfg.UI.Language))
	return nil
}

func applyFlags(cmd *cobra.Command, c *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("api-base") {
		c.API.BaseURL = apiBase
	}
	if flags.Changed("api-key") {
		c.API.APIKey = apiKey
	}
	if flags.Changed("lang") {
		c.UI.Language = language
	}
	if flags.Changed("timeout") {
		c.API.Timeout = timeout.String()
	}
}

// newClient builds the API client from the resolved configuration.
func newClient(reg prometheus.Registerer) (*leadapi.Client, error) {
	opts := []leadapi.Option{leadapi.WithLogger(logging.Get(logging.CategoryAPI))}
	if reg != nil {
		opts = append(opts, leadapi.WithMetrics(leadapi.NewMetrics(reg)))
	}
	return leadapi.New(leadapi.Config{
		BaseURL:   cfg.BaseURL(),
		APIKey:    cfg.API.APIKey,
		Timeout:   cfg.GetAPITimeout(),
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
		UserAgent: cfg.API.UserAgent,
	}, opts...)
}

// newController wires a controller rendering into view.
func newController(view page.View) (*page.Controller, error) {
	client, err := newClient(nil)
	if err != nil {
		return nil, err
	}
	return page.NewController(client, view, messages(), logging.Get(logging.CategoryPage)), nil
}

func messages() page.Messages {
	return page.Catalog(cfg.UI.Language)
}

func styles() ui.Styles {
	return ui.NewStyles(ui.ThemeFor(cfg.UI.Theme))
}
