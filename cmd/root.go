package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/cv-parser/internal/ai/gemini"
	"github.com/spigell/cv-parser/internal/processor"
	"github.com/spigell/cv-parser/internal/server"
)

const (
	app       = "cv-parser"
	envPrefix = "CV_PARSER"
)

type Config struct {
	Server *ServerConfig `mapstructure:"server"`
	Gemini *GeminiConfig `mapstructure:"gemini"`
	Cache  *CacheConfig  `mapstructure:"cache"`
}

type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	MaxUploadMB    int      `mapstructure:"max-upload-mb"`
	AllowedOrigins []string `mapstructure:"allowed-origins"`
}

type GeminiConfig struct {
	APIKey          string  `mapstructure:"api-key"`
	APIKeyFile      string  `mapstructure:"api-key-file"`
	Model           string  `mapstructure:"model"`
	Temperature     float32 `mapstructure:"temperature"`
	MaxOutputTokens int32   `mapstructure:"max-output-tokens"`
	MaxRetries      int     `mapstructure:"max-retries"`
	MaxLogLength    int     `mapstructure:"max-log-length"`
}

// CacheConfig enables the draft cache when RedisAddr is set.
type CacheConfig struct {
	RedisAddr     string        `mapstructure:"redis-addr"`
	RedisPassword string        `mapstructure:"redis-password"`
	RedisDB       int           `mapstructure:"redis-db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-parser extracts structured employee records from CV documents",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-parser.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if err := readConfig(cfgFile); err != nil {
		log.Fatal(err)
	}
}

// readConfig registers defaults and environment bindings and reads the config
// file. A missing default config file is not an error.
func readConfig(file string) error {
	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	return nil
}

// setDefaults also makes every key known to viper so that environment
// variables are picked up by Unmarshal.
func setDefaults() {
	viper.SetDefault("server.address", ":8000")
	viper.SetDefault("server.max-upload-mb", processor.DefaultMaxBytes>>20)
	viper.SetDefault("server.allowed-origins", server.DefaultAllowedOrigins)

	viper.SetDefault("gemini.api-key", "")
	viper.SetDefault("gemini.api-key-file", "")
	viper.SetDefault("gemini.model", gemini.DefaultModel)
	viper.SetDefault("gemini.temperature", 0.0)
	viper.SetDefault("gemini.max-output-tokens", gemini.DefaultMaxOutputTokens)
	viper.SetDefault("gemini.max-retries", gemini.DefaultMaxRetries)
	viper.SetDefault("gemini.max-log-length", gemini.DefaultMaxLogLength)

	viper.SetDefault("cache.redis-addr", "")
	viper.SetDefault("cache.redis-password", "")
	viper.SetDefault("cache.redis-db", 0)
	viper.SetDefault("cache.ttl", 24*time.Hour)
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil || config.Server == nil || config.Gemini == nil || config.Cache == nil {
		return nil, errors.New("configuration is incomplete")
	}

	return config, nil
}
