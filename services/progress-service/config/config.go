package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	RedisAddr  string `mapstructure:"REDIS_ADDR"`

	AccessSecret   string `mapstructure:"ACCESS_SECRET"`
	HTTPPort       string `mapstructure:"HTTP_PORT"`
	GRPCPort       string `mapstructure:"GRPC_PORT"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	// Сколько ждём все чтения снимка студента
	SnapshotTimeout  time.Duration `mapstructure:"SNAPSHOT_TIMEOUT"`
	TitleCacheTTL    time.Duration `mapstructure:"TITLE_CACHE_TTL"`
	CatalogCacheTTL  time.Duration `mapstructure:"CATALOG_CACHE_TTL"`
	RecommendedLimit int           `mapstructure:"RECOMMENDED_LIMIT"`
}

func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("HTTP_PORT", ":8080")
	viper.SetDefault("GRPC_PORT", ":50054")
	viper.SetDefault("SNAPSHOT_TIMEOUT", "5s")
	viper.SetDefault("TITLE_CACHE_TTL", "1h")
	viper.SetDefault("CATALOG_CACHE_TTL", "10m")
	viper.SetDefault("RECOMMENDED_LIMIT", 4)

	viper.AutomaticEnv()

	// Явно биндим переменные, чтобы Viper их видел без файла
	for _, key := range []string{
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "REDIS_ADDR",
		"ACCESS_SECRET", "HTTP_PORT", "GRPC_PORT", "ALLOWED_ORIGINS",
		"SNAPSHOT_TIMEOUT", "TITLE_CACHE_TTL", "CATALOG_CACHE_TTL", "RECOMMENDED_LIMIT",
	} {
		viper.BindEnv(key)
	}

	// Пытаемся прочитать файл, но не умираем, если его нет
	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	err = viper.Unmarshal(&config)
	return
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}

// Origins разбирает ALLOWED_ORIGINS (через запятую).
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
