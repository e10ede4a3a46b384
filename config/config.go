package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "ADMIN_CONFIG_FILE"
	envPrefix         = "ADMIN"
)

const (
	BackendSanity   = "sanity"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"

	AssetsFS   = "fs"
	AssetsHDFS = "hdfs"
)

type sanity struct {
	ProjectID  string        `mapstructure:"project_id"`
	Dataset    string        `mapstructure:"dataset"`
	APIVersion string        `mapstructure:"api_version"`
	Token      string        `mapstructure:"token"`
	APIHost    string        `mapstructure:"api_host"`
	CDNHost    string        `mapstructure:"cdn_host"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type gateway struct {
	Backend string `mapstructure:"backend"`
	Sanity  sanity `mapstructure:"sanity"`
	SQLDB   string `mapstructure:"sql_db"`
}

type assets struct {
	Backend   string `mapstructure:"backend"`
	FSRoot    string `mapstructure:"fs_root"`
	HDFSAddr  string `mapstructure:"hdfs_addr"`
	HDFSUser  string `mapstructure:"hdfs_user"`
	HDFSRoot  string `mapstructure:"hdfs_root"`
	PublicURL string `mapstructure:"public_url"`
}

type Account struct {
	Email        string `mapstructure:"email"`
	PasswordHash string `mapstructure:"password_hash"`
}

type auth struct {
	SessionTTL time.Duration `mapstructure:"session_ttl"`
	Accounts   []Account     `mapstructure:"accounts"`
}

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type topics struct {
	AdminEvents string `mapstructure:"admin_events"`
}

type broker struct {
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	TLS                tlsFiles `mapstructure:"tls"`
	Topics             topics   `mapstructure:"topics"`
}

// Enabled reports whether admin events are published.
func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

type Config struct {
	LogLevel           slog.Level    `mapstructure:"log_level"`
	HTTPServerAddr     string        `mapstructure:"http_server_addr"`
	HTTPRequestTimeout time.Duration `mapstructure:"http_request_timeout"`
	Gateway            gateway       `mapstructure:"gateway"`
	Assets             assets        `mapstructure:"assets"`
	Auth               auth          `mapstructure:"auth"`
	Broker             broker        `mapstructure:"broker"`
}

var defaults = map[string]any{
	"log_level":                   "info",
	"http_server_addr":            ":8080",
	"http_request_timeout":        "30s",
	"gateway.backend":             BackendSanity,
	"gateway.sanity.project_id":   "",
	"gateway.sanity.dataset":      "production",
	"gateway.sanity.api_version":  "2023-05-03",
	"gateway.sanity.token":        "",
	"gateway.sanity.api_host":     "",
	"gateway.sanity.cdn_host":     "https://cdn.sanity.io",
	"gateway.sanity.timeout":      "10s",
	"gateway.sql_db":              "",
	"assets.backend":              AssetsFS,
	"assets.fs_root":              "./data/assets",
	"assets.hdfs_addr":            "",
	"assets.hdfs_user":            "",
	"assets.hdfs_root":            "/shop-admin/assets",
	"assets.public_url":           "/assets",
	"auth.session_ttl":            "8h",
	"auth.accounts":               []Account{},
	"broker.seed_brokers":         []string{},
	"broker.schema_registry_urls": []string{},
	"broker.tls.ca":               "",
	"broker.tls.cert":             "",
	"broker.tls.key":              "",
	"broker.topics.admin_events":  "shop-admin-events",
}

func Load() Config {
	cfg, err := load(os.Args[1:])
	if err != nil {
		die(err)
	}
	return cfg
}

func load(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path, err := getConfigFilepath(args)
	if err != nil {
		return Config{}, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	err = v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// getConfigFilepath prefers the environment over the --config flag.
// Empty result means defaults and environment only.
func getConfigFilepath(args []string) (string, error) {
	cmdLine := pflag.NewFlagSet("config", pflag.ContinueOnError)
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	arg := cmdLine.String("config", "", "config file")
	if err := cmdLine.Parse(args); err != nil {
		return "", err
	}
	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env, nil
	}
	return *arg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch c.Gateway.Backend {
	case BackendSanity:
		if c.Gateway.Sanity.ProjectID == "" {
			errs = append(errs, errors.New("gateway.sanity.project_id: required"))
		}
		if c.Gateway.Sanity.Dataset == "" {
			errs = append(errs, errors.New("gateway.sanity.dataset: required"))
		}
	case BackendPostgres:
		if c.Gateway.SQLDB == "" {
			errs = append(errs, errors.New("gateway.sql_db: required"))
		}
	case BackendMemory:
	default:
		errs = append(errs, fmt.Errorf(
			"gateway.backend: unknown backend %q", c.Gateway.Backend,
		))
	}

	if c.Gateway.Backend != BackendSanity {
		switch c.Assets.Backend {
		case AssetsFS:
			if c.Assets.FSRoot == "" {
				errs = append(errs, errors.New("assets.fs_root: required"))
			}
		case AssetsHDFS:
			if c.Assets.HDFSAddr == "" {
				errs = append(errs, errors.New("assets.hdfs_addr: required"))
			}
		default:
			errs = append(errs, fmt.Errorf(
				"assets.backend: unknown backend %q", c.Assets.Backend,
			))
		}
	}

	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("auth.session_ttl: must be positive"))
	}
	if len(c.Auth.Accounts) == 0 {
		errs = append(errs, errors.New("auth.accounts: at least one account required"))
	}
	for i, a := range c.Auth.Accounts {
		if a.Email == "" || a.PasswordHash == "" {
			errs = append(errs, fmt.Errorf(
				"auth.accounts[%d]: email and password_hash required", i,
			))
		}
	}

	if c.Broker.Enabled() {
		if len(c.Broker.SchemaRegistryURLs) == 0 {
			errs = append(errs, errors.New("broker.schema_registry_urls: required"))
		}
		if c.Broker.Topics.AdminEvents == "" {
			errs = append(errs, errors.New("broker.topics.admin_events: required"))
		}
	}

	return errors.Join(errs...)
}

func die(err error) {
	fmt.Printf("failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	HTTPRequestTimeout=%q

	Gateway:
	Backend=%q
	Sanity:
		ProjectID=%q
		Dataset=%q
		APIVersion=%q
		Token=%q
		APIHost=%q
		CDNHost=%q
		Timeout=%q
	SQLDB=%q

	Assets:
	Backend=%q
	FSRoot=%q
	HDFSAddr=%q
	HDFSUser=%q
	HDFSRoot=%q
	PublicURL=%q

	Auth:
	SessionTTL=%q
	Accounts=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		AdminEvents=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.HTTPRequestTimeout,
		c.Gateway.Backend,
		c.Gateway.Sanity.ProjectID,
		c.Gateway.Sanity.Dataset,
		c.Gateway.Sanity.APIVersion,
		mask(c.Gateway.Sanity.Token),
		c.Gateway.Sanity.APIHost,
		c.Gateway.Sanity.CDNHost,
		c.Gateway.Sanity.Timeout,
		redactDSN(c.Gateway.SQLDB),
		c.Assets.Backend,
		c.Assets.FSRoot,
		c.Assets.HDFSAddr,
		c.Assets.HDFSUser,
		c.Assets.HDFSRoot,
		c.Assets.PublicURL,
		c.Auth.SessionTTL,
		accountEmails(c.Auth.Accounts),
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.CA != "",
		c.Broker.Topics.AdminEvents,
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "****"
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" {
		return mask(dsn)
	}
	return u.Redacted()
}

func accountEmails(accounts []Account) []string {
	emails := make([]string, 0, len(accounts))
	for _, a := range accounts {
		emails = append(emails, a.Email)
	}
	return emails
}
