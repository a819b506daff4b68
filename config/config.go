package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Game     GameConfig     `mapstructure:"game"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// GameConfig holds the rule constants the engine depends on but does not
// define the source of: seat capacity, round limit, reveal schedule and how
// long an idle room is retained before housekeeping purges it.
type GameConfig struct {
	RoomCapacity  int           `mapstructure:"room_capacity"`
	MaxRounds     int           `mapstructure:"max_rounds"`
	RevealRounds  []int         `mapstructure:"reveal_rounds"`
	RoomRetention time.Duration `mapstructure:"room_retention"`
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("game.room_capacity", 6)
	viper.SetDefault("game.max_rounds", 24)
	viper.SetDefault("game.reveal_rounds", []int{3, 8, 13, 18, 24})
	viper.SetDefault("game.room_retention", 24*time.Hour)

	viper.AutomaticEnv()

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
