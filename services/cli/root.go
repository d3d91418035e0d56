package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/02loveslollipop/thinsos/internal/logging"
	"github.com/02loveslollipop/thinsos/sos"
)

type settings struct {
	URL      string
	Token    string
	Format   string
	Timeout  time.Duration
	LogLevel string
}

// app carries the configuration shared by every subcommand.
type app struct {
	v        *viper.Viper
	settings settings
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "thinsos",
		Short: "thinsos - command line client for SOS 2.0 services",
		Long: `thinsos queries a 52°North Sensor Observation Service and prints
capabilities, data availability, features of interest and observations
as flat CSV or JSON tables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default ./thinsos.yaml or $HOME/.thinsos/thinsos.yaml)")
	flags.String("url", "", "SOS service URL")
	flags.String("token", "", "value sent in the Authorization header")
	flags.String("format", "csv", "output format: csv or json")
	flags.Duration("timeout", 30*time.Second, "request timeout")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")

	for _, name := range []string{"config", "url", "token", "format", "timeout", "log-level"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	rootCmd.AddCommand(
		newCapabilitiesCmd(a),
		newAvailabilityCmd(a),
		newFeaturesCmd(a),
		newObservationsCmd(a),
	)
	return rootCmd
}

// load resolves settings from flags, THINSOS_* environment variables and
// an optional config file, in that order of precedence.
func (a *app) load() error {
	v := a.v
	v.SetEnvPrefix("THINSOS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("thinsos")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.thinsos")
	}
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	a.settings = settings{
		URL:      v.GetString("url"),
		Token:    v.GetString("token"),
		Format:   strings.ToLower(v.GetString("format")),
		Timeout:  v.GetDuration("timeout"),
		LogLevel: v.GetString("log-level"),
	}
	if a.settings.URL == "" {
		return errors.New("missing SOS URL: set --url or THINSOS_URL")
	}
	if a.settings.Format != "csv" && a.settings.Format != "json" {
		return fmt.Errorf("invalid format %q: expected csv or json", a.settings.Format)
	}

	logging.Setup(a.settings.LogLevel)
	return nil
}

func (a *app) client(cmd *cobra.Command) (*sos.Client, error) {
	return sos.NewClient(cmd.Context(), a.settings.URL, a.settings.Token,
		sos.WithHTTPClient(&http.Client{Timeout: a.settings.Timeout}),
		sos.WithLogger(log.Logger),
	)
}
