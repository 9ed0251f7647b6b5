package main

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind         string
	port         int
	puzzlesPath  string
	clientOrigin string
	dailySalt    string
	logLevel     string
	logFormat    string

	sessionTimeout time.Duration
}

// legacyEnv maps flags to the unprefixed variable names older .env files use.
// The CLUES_ name is consulted first.
var legacyEnv = map[string]string{
	"port":          "PORT",
	"client-origin": "CLIENT_ORIGIN",
	"daily-salt":    "DAILY_SALT",
	"log-level":     "LOG_LEVEL",
	"log-format":    "LOG_FORMAT",
}

func (c *Config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	switch c.logFormat {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format %q (want json or console)", c.logFormat)
	}
	if _, err := zerolog.ParseLevel(c.logLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.logLevel, err)
	}
	if c.dailySalt == "" {
		return errors.New("--daily-salt must not be empty")
	}
	if c.sessionTimeout < 0 {
		return fmt.Errorf("invalid session timeout (must not be negative): %s", c.sessionTimeout)
	}
	return nil
}

func (c *Config) addr() string {
	return net.JoinHostPort(c.bind, strconv.Itoa(c.port))
}

// setupLogger configures the global zerolog logger from cfg.
func setupLogger(cfg *Config, out io.Writer) {
	if lvl, err := zerolog.ParseLevel(cfg.logLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.logFormat == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("CLUES")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "clues",
		Short:   "Serves the category clue guessing game.",
		Args:    cobra.ExactArgs(0),
		Version: releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			setupLogger(cfg, os.Stderr)
			return run(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: CLUES_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 5175, "port to listen on (env: CLUES_PORT)")
	fs.StringVar(&cfg.puzzlesPath, "puzzles", "", "path to a puzzle dataset; embedded default when empty (env: CLUES_PUZZLES)")
	fs.StringVar(&cfg.clientOrigin, "client-origin", "http://localhost:5173", "origin allowed by CORS (env: CLUES_CLIENT_ORIGIN)")
	fs.StringVar(&cfg.dailySalt, "daily-salt", "local_dev_salt", "salt for the daily puzzle pick (env: CLUES_DAILY_SALT)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "zerolog level (env: CLUES_LOG_LEVEL)")
	fs.StringVar(&cfg.logFormat, "log-format", "json", "json or console (env: CLUES_LOG_FORMAT)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 60*time.Minute, "drop games idle for this long; 0 disables (env: CLUES_SESSION_TIMEOUT)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		envs := []string{"CLUES_" + strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))}
		if legacy, ok := legacyEnv[f.Name]; ok {
			envs = append(envs, legacy)
		}
		_ = v.BindEnv(append([]string{f.Name}, envs...)...)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("clues v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
