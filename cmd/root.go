// File: cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/flotsam/internal/config"
	"github.com/xkilldash9x/flotsam/internal/observability"
)

// errDiagnosticsFound distinguishes "the run worked and found problems"
// from real failures. Execute maps it to exit code 1; everything else
// exits 2.
var errDiagnosticsFound = errors.New("diagnostics found")

type ctxKey int

const configKey ctxKey = iota

var cfgFile string

// newRootCmd builds the root command with configuration and logging wired
// into PersistentPreRunE so every subcommand starts from a validated config.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "flotsam",
		Short:         "Flotsam finds and fixes floating promises in JavaScript and TypeScript.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)

			if err := initializeConfig(cmd, v); err != nil {
				// Fall back to a basic logger so the failure is visible.
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "flotsam"})
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "flotsam"})
				return err
			}

			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("Starting flotsam", zap.String("version", Version))

			// Subcommands read the validated config from the context.
			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.flotsam.yaml)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	cmd.PersistentFlags().String("log-file", "", "also write JSON logs to this file")
	cmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newRulesCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// configFromContext returns the config PersistentPreRunE stored, or defaults
// when a test drives a subcommand directly.
func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok && cfg != nil {
		return cfg
	}
	return config.NewDefaultConfig()
}

// flagBindings maps config keys to the flag, local or inherited, that
// overrides them. Lookup misses are fine: not every command defines every
// flag.
var flagBindings = map[string]string{
	"logger.level":         "log-level",
	"logger.log_file":      "log-file",
	"engine.concurrency":   "concurrency",
	"source.max_file_size": "max-file-size",
	"source.include_html":  "include-html",
	"source.excludes":      "exclude",
	"output.format":        "format",
	"output.path":          "output",
}

// initializeConfig reads the config file, environment and flag overrides
// into v. Missing config files are not an error; unreadable ones are.
func initializeConfig(cmd *cobra.Command, v *viper.Viper) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".flotsam")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".flotsam"))
		}
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(config.EnvKeyReplacer())
	v.AutomaticEnv()

	for key, name := range flagBindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// Execute runs the root command under a signal-aware context and converts
// the outcome to an exit status: 0 clean, 1 diagnostics found, 2 failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)

	code := 0
	switch {
	case err == nil:
	case errors.Is(err, errDiagnosticsFound):
		code = 1
	default:
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		code = 2
	}

	// os.Exit skips deferred calls, so flush explicitly.
	observability.Sync()
	if code != 0 {
		stop()
		os.Exit(code)
	}
}
