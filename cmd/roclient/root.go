package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/geoknoesis/rosrs-go/config"
	"github.com/geoknoesis/rosrs-go/httpsession"
	"github.com/geoknoesis/rosrs-go/ro"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	cfgFile string
	service string
	token   string
	verbose bool

	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
}

func newRootCommand(out io.Writer) *cobra.Command {
	a := &app{out: out, logger: zap.NewNop()}
	root := &cobra.Command{
		Use:   "roclient",
		Short: "Manipulate Research Objects held by a ROSRS service",
		Long: `roclient reads and updates Research Objects through the ROSRS API.

Settings come from the file named by --config and from ROSRS_* environment
variables; --service and --token override both.

Examples:
  roclient manifest myro                 Print the manifest as Turtle
  roclient query myro 'ASK { ?s a ro:ResearchObject }'
  roclient add myro data/input.csv ./input.csv --type text/csv`,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.setup() },
		PersistentPostRun: func(*cobra.Command, []string) { _ = a.logger.Sync() },
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (yaml, toml or json)")
	flags.StringVar(&a.service, "service", "", "ROSRS service URI")
	flags.StringVar(&a.token, "token", "", "access token for the service")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		a.newManifestCommand(),
		a.newAnnotationsCommand(),
		a.newQueryCommand(),
		a.newAddCommand(),
		a.newUpdateCommand(),
		a.newAddExternalCommand(),
		a.newRemoveCommand(),
		a.newLinksCommand(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.service != "" {
		cfg.ServiceURI = a.service
	}
	if a.token != "" {
		cfg.AccessToken = a.token
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	a.logger, err = newLogger(level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	a.cfg = cfg
	return nil
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if level > zapcore.DebugLevel {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{"stderr"}
	return zcfg.Build()
}

func (a *app) session() (*httpsession.Session, error) {
	return httpsession.New(a.cfg.ServiceURI,
		httpsession.WithAccessToken(a.cfg.AccessToken),
		httpsession.WithTimeout(a.cfg.Timeout),
		httpsession.WithUserAgent(a.cfg.UserAgent),
		httpsession.WithLogger(a.logger.Named("session")),
	)
}

func (a *app) open(s *httpsession.Session, ref string) (*ro.RemoteMetadata, error) {
	return ro.New(s, ref,
		ro.WithLogger(a.logger.Named("ro")),
		ro.WithManifestLocation(a.cfg.ManifestDir, a.cfg.ManifestFile),
	)
}
