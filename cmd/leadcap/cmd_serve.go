package main

import (
	"time"

	"leadcap/internal/logging"
	"leadcap/internal/web"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd serves the capture page over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the capture page over HTTP",
	Long: `Serves the lead capture page:

  GET  /         the page with the current lead list
  POST /lead     form submission
  GET  /healthz  liveness
  GET  /metrics  Prometheus metrics for calls to the lead API`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Server.Addr
	if cmd.Flags().Changed("addr") {
		addr = serveAddr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client, err := newClient(reg)
	if err != nil {
		return err
	}

	srv := web.NewServer(web.Config{
		Addr:         addr,
		Language:     cfg.UI.Language,
		ReadTimeout:  cfg.GetReadTimeout(),
		WriteTimeout: writeTimeout(cfg.GetAPITimeout()),
	}, client, reg, logging.Get(logging.CategoryWeb))

	return srv.Run(cmd.Context())
}

// writeTimeout bounds one page response. POST /lead makes two sequential API
// calls (the create, then a list), each allowed the full API timeout.
func writeTimeout(apiTimeout time.Duration) time.Duration {
	return 2*apiTimeout + 5*time.Second
}
