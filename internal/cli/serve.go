package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sfko/legocat/internal/logging"
	"github.com/sfko/legocat/internal/remote/server"
)

var (
	serveListen    string
	serveLogLevel  string
	serveLogFormat string
	servePageSize  int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the legocat HTTP server",
	Long: `Run the legocat HTTP server over the configured catalog database.

Flags override the config file and LEGOCAT_* environment variables.

Examples:
  legocat serve
  legocat serve --config /etc/legocat.toml --listen 127.0.0.1:8080
  legocat serve --log-level debug --log-format text`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveListen, "listen", "", "Listen address (host:port)")
	f.StringVar(&serveLogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	f.StringVar(&serveLogFormat, "log-format", "", "Log format (json|text)")
	f.IntVar(&servePageSize, "page-size", 0, "Sets per listing page")
}

func runServe(cmd *cobra.Command, _ []string) {
	cfg := loadConfig()
	if serveListen != "" {
		cfg.Server.Listen = serveListen
	}
	if serveLogLevel != "" {
		cfg.Log.Level = serveLogLevel
	}
	if serveLogFormat != "" {
		cfg.Log.Format = serveLogFormat
	}
	if servePageSize != 0 {
		cfg.Server.PageSize = servePageSize
	}
	if err := cfg.Validate(); err != nil {
		exitError("%v", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stdout)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg, version, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
