package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg，环境变量 LITTLESTORIES_* 可覆盖文件中的值
func LoadConfig() error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("LITTLESTORIES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.site_url", "http://localhost:8080")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:littlestories.db?cache=shared")
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 50)
	v.SetDefault("database.max_lifetime", 30)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("jwt.secret", "little-stories")
	v.SetDefault("jwt.issuer", "LittleStories")
	v.SetDefault("jwt.expiration_hours", 24)
	v.SetDefault("logstash.index", "logstash-littlestories")
	v.SetDefault("mail.from", "no-reply@littlestories.local")
	v.SetDefault("mail.timeout_seconds", 10)
	v.SetDefault("elastic.indices.story_index", "stories")
	v.SetDefault("kafka.story_topic", "little-stories.story-events")
	v.SetDefault("kafka.story_group_id", "little-stories-indexer")
	v.SetDefault("cron.story_reindex", "0 0 3 * * *")
	v.SetDefault("limits.sign_in_per_minute", 10)
	v.SetDefault("limits.claim_per_minute", 10)
	v.SetDefault("cache.list_ttl_seconds", 300)
	v.SetDefault("cache.detail_ttl_seconds", 600)
}
