package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Configはアプリ全体の設定
type Config struct {
	Port  string // サーバーポート（8080）
	GoEnv string // dev/prod

	DBDriver         string // postgres / mysql / sqlite
	DatabaseURL      string // あればこちらを優先
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int
	PostgresSSLMode  string

	ShopifyAPIKey    string // セッショントークンのaud
	ShopifyAPISecret string // Webhook HMAC / セッショントークン署名

	RedisAddr     string // 空ならメモリで重複排除
	RedisPassword string
	RedisDB       int
	WebhookTTL    time.Duration // 配信IDを覚えておく時間

	LogLevel  string // debug/info/warn/error
	LogFormat string // json/console
}

// Loadは環境変数（.envはmainで読み込み済み）
func Load() (Config, error) {
	cfg, err := LoadDatabase()
	if err != nil {
		return Config{}, err
	}

	//必須チェック
	if cfg.ShopifyAPIKey == "" {
		return Config{}, fmt.Errorf("SHOPIFY_API_KEY is required")
	}
	if cfg.ShopifyAPISecret == "" {
		return Config{}, fmt.Errorf("SHOPIFY_API_SECRET is required")
	}
	return cfg, nil
}

// LoadDatabase はShopifyの鍵を必須にしない（管理CLI用）
func LoadDatabase() (Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GO_ENV", "dev")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "postgres")
	v.SetDefault("POSTGRES_DB", "app")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("WEBHOOK_DEDUPE_TTL", "24h")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	cfg := Config{
		Port:  v.GetString("PORT"),
		GoEnv: v.GetString("GO_ENV"),

		DBDriver:         strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		PostgresUser:     v.GetString("POSTGRES_USER"),
		PostgresPassword: v.GetString("POSTGRES_PASSWORD"),
		PostgresDB:       v.GetString("POSTGRES_DB"),
		PostgresHost:     v.GetString("POSTGRES_HOST"),
		PostgresPort:     v.GetInt("POSTGRES_PORT"),
		PostgresSSLMode:  v.GetString("POSTGRES_SSLMODE"),

		ShopifyAPIKey:    v.GetString("SHOPIFY_API_KEY"),
		ShopifyAPISecret: v.GetString("SHOPIFY_API_SECRET"),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),
		RedisDB:       v.GetInt("REDIS_DB"),
		WebhookTTL:    v.GetDuration("WEBHOOK_DEDUPE_TTL"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}

	switch cfg.DBDriver {
	case "postgres", "mysql", "sqlite":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be postgres, mysql or sqlite: %q", cfg.DBDriver)
	}
	if cfg.DBDriver != "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required for %s", cfg.DBDriver)
	}
	if cfg.WebhookTTL <= 0 {
		return Config{}, fmt.Errorf("WEBHOOK_DEDUPE_TTL must be positive")
	}

	return cfg, nil
}

// Addr は ":8080" 形式
func (c Config) Addr() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

func (c Config) IsProduction() bool {
	return c.GoEnv == "prod" || c.GoEnv == "production"
}
