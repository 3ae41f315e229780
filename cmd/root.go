package cmd

import (
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "lumina-offer"
)

type Config struct {
	Server *ServerConfig `mapstructure:"server"`
	Sheets *SheetsConfig `mapstructure:"sheets"`
	Line   *LineConfig   `mapstructure:"line"`
	AI     *AIConfig     `mapstructure:"ai"`
	Offer  *OfferConfig  `mapstructure:"offer"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type SheetsConfig struct {
	CredentialsFile string        `mapstructure:"credentials-file"`
	SpreadsheetID   string        `mapstructure:"spreadsheet-id"`
	RefreshInterval time.Duration `mapstructure:"refresh-interval"`
}

type LineConfig struct {
	ChannelTokenFile  string `mapstructure:"channel-token-file"`
	ChannelSecretFile string `mapstructure:"channel-secret-file"`
	LiffID            string `mapstructure:"liff-id"`
	LearnMoreURL      string `mapstructure:"learn-more-url"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type OfferConfig struct {
	// SendAt is an optional "HH:MM" send window. Empty means offers go out
	// as soon as the pipeline finishes.
	SendAt   string `mapstructure:"send-at"`
	Timezone string `mapstructure:"timezone"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "lumina-offer matches beautician candidates with salon postings and sends LINE offers",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envBindings := map[string]string{
		"line.channel-token-file":  "LINE_CHANNEL_TOKEN_FILE",
		"line.channel-secret-file": "LINE_CHANNEL_SECRET_FILE",
		"ai.gemini.api-key-file":   "GEMINI_API_KEY_FILE",
		"sheets.credentials-file":  "SHEETS_CREDENTIALS_FILE",
	}
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is lumina-offer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the serve command. If there is no config, we can
	// skip initialization.
	if serveCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
