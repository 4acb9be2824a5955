package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "PETSTORE"

// Config del servicio. Precedencia: env (PETSTORE_*) > archivo
// (opcional, --config) > defaults.
type Config struct {
	Addr        string `mapstructure:"addr"`
	DBDSN       string `mapstructure:"db_dsn"`
	CatalogDir  string `mapstructure:"catalog_dir"`
	CatalogURL  string `mapstructure:"catalog_url"`
	UsersAPIURL string `mapstructure:"users_api_url"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

func Load() Config {
	v := viper.New()

	v.SetDefault("addr", ":8080")
	v.SetDefault("db_dsn", "")
	v.SetDefault("catalog_dir", "./data/catalog")
	v.SetDefault("catalog_url", "")
	v.SetDefault("users_api_url", "http://localhost:5000")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path := getConfigFilepath(); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			die(err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		die(err)
	}
	return cfg
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "", "config file (optional)")
	_ = cmdLine.Parse(os.Args[1:])

	if env, ok := os.LookupEnv(envPrefix + "_CONFIG_FILE"); ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	template := `
	Addr=%q
	DBDSN=%q
	CatalogDir=%q
	CatalogURL=%q
	UsersAPIURL=%q
	LogLevel=%q
	LogFormat=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(template, "\n"),
		c.Addr,
		redactDSN(c.DBDSN),
		c.CatalogDir,
		c.CatalogURL,
		c.UsersAPIURL,
		c.LogLevel,
		c.LogFormat,
	)
}

// redactDSN esconde credenciales del DSN en el log de arranque.
func redactDSN(dsn string) string {
	if dsn == "" {
		return ""
	}
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at == -1 || scheme == -1 || at < scheme {
		return dsn
	}
	return dsn[:scheme+3] + "***" + dsn[at:]
}
