package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "TEEREX_CONFIG_FILE"
	envPrefix         = "TEEREX"
	envFile           = ".env"
)

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

// Enabled reports whether all TLS files are set.
func (t tlsFiles) Enabled() bool {
	return t.CA != "" && t.Cert != "" && t.Key != ""
}

type catalog struct {
	BaseURL      string        `mapstructure:"base_url"`
	ProductsPath string        `mapstructure:"products_path"`
	SearchPath   string        `mapstructure:"search_path"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	TLS          tlsFiles      `mapstructure:"tls"`
}

type search struct {
	Debounce            time.Duration `mapstructure:"debounce"`
	InitialLoadAttempts int           `mapstructure:"initial_load_attempts"`
	RetryDelay          time.Duration `mapstructure:"retry_delay"`
}

type catalogAPI struct {
	HTTPServerAddr string   `mapstructure:"http_server_addr"`
	CatalogFile    string   `mapstructure:"catalog_file"`
	TLS            tlsFiles `mapstructure:"tls"`
}

type topics struct {
	SearchEvents string `mapstructure:"search_events"`
}

type broker struct {
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	Topics             topics   `mapstructure:"topics"`
}

// Enabled reports whether search events are produced.
func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

type Config struct {
	LogLevel   slog.Level `mapstructure:"log_level"`
	Catalog    catalog    `mapstructure:"catalog"`
	Search     search     `mapstructure:"search"`
	CatalogAPI catalogAPI `mapstructure:"catalog_api"`
	Broker     broker     `mapstructure:"broker"`
}

// Load reads the config file given by the --config flag or the
// TEEREX_CONFIG_FILE env and exits the process on failure.
func Load() Config {
	if err := LoadEnvFile(envFile); err != nil {
		die(err)
	}

	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadEnvFile exports the variables of the dotenv file at path without
// overriding the environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	const op = "config.LoadEnvFile"

	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// LoadFile reads the config file at path over the defaults. Every key may
// be overridden by a TEEREX_ prefixed env, e.g. TEEREX_SEARCH_DEBOUNCE.
// An empty path means defaults and env only.
func LoadFile(path string) (Config, error) {
	const op = "config.LoadFile"

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("catalog.base_url", "http://127.0.0.1:8082")
	v.SetDefault("catalog.products_path", "/products")
	v.SetDefault("catalog.search_path", "/products/search")
	v.SetDefault("catalog.fetch_timeout", "10s")
	v.SetDefault("catalog.tls.ca", "")
	v.SetDefault("catalog.tls.cert", "")
	v.SetDefault("catalog.tls.key", "")

	v.SetDefault("search.debounce", "500ms")
	v.SetDefault("search.initial_load_attempts", 1)
	v.SetDefault("search.retry_delay", "200ms")

	v.SetDefault("catalog_api.http_server_addr", ":8082")
	v.SetDefault("catalog_api.catalog_file", "data/catalog.yaml")
	v.SetDefault("catalog_api.tls.ca", "")
	v.SetDefault("catalog_api.tls.cert", "")
	v.SetDefault("catalog_api.tls.key", "")

	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.topics.search_events", "search_events")
}

func (c Config) validate() error {
	var errs []error
	if c.Catalog.BaseURL == "" {
		errs = append(errs, errors.New("catalog.base_url is empty"))
	}
	if c.Catalog.FetchTimeout <= 0 {
		errs = append(errs, errors.New("catalog.fetch_timeout must be positive"))
	}
	if c.Search.Debounce < 0 {
		errs = append(errs, errors.New("search.debounce is negative"))
	}
	if c.Search.InitialLoadAttempts < 1 {
		errs = append(errs, errors.New("search.initial_load_attempts must be at least 1"))
	}
	if c.Broker.Enabled() {
		if len(c.Broker.SchemaRegistryURLs) == 0 {
			errs = append(errs, errors.New("broker.schema_registry_urls is empty"))
		}
		if c.Broker.Topics.SearchEvents == "" {
			errs = append(errs, errors.New("broker.topics.search_events is empty"))
		}
	}
	return errors.Join(errs...)
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q

	Catalog:
	BaseURL=%q
	ProductsPath=%q
	SearchPath=%q
	FetchTimeout=%q
	TLS=%t

	Search:
	Debounce=%q
	InitialLoadAttempts=%d
	RetryDelay=%q

	CatalogAPI:
	HTTPServerAddr=%q
	CatalogFile=%q
	TLS=%t

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		SearchEvents=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.Catalog.BaseURL,
		c.Catalog.ProductsPath,
		c.Catalog.SearchPath,
		c.Catalog.FetchTimeout,
		c.Catalog.TLS.Enabled(),
		c.Search.Debounce,
		c.Search.InitialLoadAttempts,
		c.Search.RetryDelay,
		c.CatalogAPI.HTTPServerAddr,
		c.CatalogAPI.CatalogFile,
		c.CatalogAPI.TLS.Enabled(),
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.SearchEvents,
	)
}
