package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shawkym/moragents-tui/internal/version"
	"github.com/shawkym/moragents-tui/pkg/client"
	"github.com/shawkym/moragents-tui/pkg/config"
	"github.com/shawkym/moragents-tui/pkg/credentials"
	"github.com/shawkym/moragents-tui/pkg/log"
	"github.com/shawkym/moragents-tui/pkg/metrics"
	"github.com/shawkym/moragents-tui/pkg/ratelimit"
)

var (
	cfgFile     string
	showVersion bool
)

var rootCmd = &cobra.Command{
	Use:   "moragents",
	Short: "Terminal client for the Morpheus crypto-assistant agents",
	Long: `moragents is a terminal client for the Morpheus crypto-assistant backend.
It lets you chat with the enabled agents, pick prefilled example prompts,
fill in hotel searches and manage the X (Twitter) API credentials used by
the tweet agent.`,
	Run: func(cmd *cobra.Command, args []string) {
		if showVersion {
			fmt.Println(version.GetVersionString())
			os.Exit(0)
		}
		// If no flags, show help
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.moragents.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")
	rootCmd.PersistentFlags().String("backend-url", "", "Backend base URL (overrides config)")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false, "Show version information")

	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding verbose flag: %v\n", err)
	}
	if err := viper.BindPFlag("backend.url", rootCmd.PersistentFlags().Lookup("backend-url")); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding backend-url flag: %v\n", err)
	}
}

func initConfig() {
	level := zerolog.InfoLevel
	if viper.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	log.InitLogger(os.Stderr, level, true)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		log.WithField("config_file", cfgFile).Debug("using specified config file")
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			log.WithError(err).Error("failed to get home directory")
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			os.Exit(1)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".moragents")
	}

	viper.SetEnvPrefix("MORAGENTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("config_file", viper.ConfigFileUsed()).Debug("loaded configuration file")
	} else {
		log.WithError(err).Debug("no config file found, using defaults")
	}
}

// loadConfig returns the effective configuration and the file it came from
// (empty when running on defaults). --backend-url and MORAGENTS_BACKEND_URL
// override the file.
func loadConfig() (*config.Config, string, error) {
	path := viper.ConfigFileUsed()
	if _, err := os.Stat(path); path != "" && err != nil {
		path = ""
	}

	cfg := config.NewDefaultConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, "", err
		}
		cfg = loaded
	}

	if u := viper.GetString("backend.url"); u != "" && u != cfg.Backend.URL {
		cfg.Backend.URL = u
		if err := cfg.Validate(); err != nil {
			return nil, "", fmt.Errorf("invalid --backend-url: %w", err)
		}
	}
	return cfg, path, nil
}

func newClient(cfg *config.Config, m *metrics.Metrics) *client.Client {
	return client.New(cfg.Backend.URL,
		client.WithTimeout(cfg.Backend.Timeout),
		client.WithMetrics(m),
		client.WithUserAgent(version.UserAgent()),
		client.WithRateLimiter(ratelimit.NewLimiter(cfg.Backend.RateLimit, cfg.Backend.RateBurst)),
	)
}

// openCredentials opens the local credential store and wraps it in a
// service that syncs through syncer, which may be nil for read-only use.
// The caller closes the store.
func openCredentials(cfg *config.Config, syncer credentials.Syncer, m *metrics.Metrics) (*credentials.Service, *credentials.SQLiteStore, error) {
	store, err := credentials.OpenSQLite(cfg.Storage.CredentialsDB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open credential store: %w", err)
	}
	return credentials.NewService(store, syncer, m), store, nil
}
