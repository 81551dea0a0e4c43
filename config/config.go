package config

import (
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
	PublicBaseURL  string `mapstructure:"public_base_url"`
}

// GameConfig holds the defaults applied to newly created rooms.
type GameConfig struct {
	RoundsTotal      int `mapstructure:"rounds_total"`
	RoundSeconds     int `mapstructure:"round_seconds"`
	RevealSeconds    int `mapstructure:"reveal_seconds"`
	CountdownSeconds int `mapstructure:"countdown_seconds"`
	MaxPlayers       int `mapstructure:"max_players"`
}

type AuthConfig struct {
	SigningSecret string `mapstructure:"signing_secret"`
}

type DatabaseConfig struct {
	// Driver selects the persistence backend: "pq", "gorm" or "" (disabled).
	Driver   string         `mapstructure:"driver"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type LogConfig struct {
	Development bool `mapstructure:"development"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("server.http_address", ":10000")
	viper.SetDefault("server.rpc_address", ":10001")
	viper.SetDefault("server.metrics_address", ":10002")
	viper.SetDefault("game.rounds_total", 5)
	viper.SetDefault("game.round_seconds", 90)
	viper.SetDefault("game.reveal_seconds", 12)
	viper.SetDefault("game.countdown_seconds", 5)
	viper.SetDefault("game.max_players", 30)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		// Missing config file is fine, defaults and env cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	err = viper.Unmarshal(&config)
	return
}
