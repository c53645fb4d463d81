package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/ryukoposting/ustack/internal/config"
)

var cfgFile string
var appConfig config.Config
var logger = slog.Default()

var rootCmd = &cobra.Command{
	Use:   "ustack",
	Short: "ustack - a tiny markdown blog server",
	Long: `ustack serves a blog straight from a directory of Markdown files.

Posts live in ./posts, site settings and the front page in ./index.md and
static files in ./public. Files are re-read lazily once the cache TTL has
passed, so edits show up without a restart.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().StringP("directory", "d", "", "root directory of the blog (default is the working directory)")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "log verbosity: debug, info, warn or error")
}

func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	v.SetDefault("directory", "")
	v.SetDefault("address", config.DefaultAddress)
	v.SetDefault("cache_ttl", config.DefaultCacheTTL)
	v.SetDefault("index_page_len", config.DefaultIndexPageLen)
	v.SetDefault("feed_max_items", config.DefaultFeedMaxItems)
	v.SetDefault("watch", false)
	v.SetDefault("log_level", config.DefaultLogLevel)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("USTACK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	if err := bindFlags(v, cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	configUsed := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && cfgFile == "":
			// optional
		case errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("config file %s not found: %w", cfgFile, err)
		default:
			return fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configUsed = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := appConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level, _ := config.ParseLevel(appConfig.LogLevel)
	logger = newLogger(level)
	slog.SetDefault(logger)

	if configUsed != "" {
		logger.Info("using config file", "file", configUsed)
	} else {
		logger.Debug("no config file found, using defaults, flags and environment")
	}
	return nil
}

// bindFlags binds every flag under its config key, which spells the flag name
// with underscores.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || f.Name == "help" {
			return
		}
		key := strings.ReplaceAll(f.Name, "-", "_")
		if bindErr := v.BindPFlag(key, f); bindErr != nil && err == nil {
			err = bindErr
		}
	})
	return err
}

// newLogger writes human-readable logs to a terminal and JSON everywhere else.
func newLogger(level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}

// blogRoot resolves the configured blog directory.
func blogRoot(cfg config.Config) (string, error) {
	if cfg.Directory == "" {
		return os.Getwd()
	}
	return filepath.Abs(cfg.Directory)
}
