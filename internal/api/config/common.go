package config

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	DB       DBConfig       `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Logstash LogstashConfig `mapstructure:"logstash"`
	Mail     MailConfig     `mapstructure:"mail"`
	Elastic  ElasticConfig  `mapstructure:"elastic"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Cron     CronConfig     `mapstructure:"cron"`
	Limits   LimitsConfig   `mapstructure:"limits"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port    int    `mapstructure:"port"`
	SiteURL string `mapstructure:"site_url"`
}

// DBConfig 数据库配置，Driver 可选 postgres / mysql / sqlite
type DBConfig struct {
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type JWTConfig struct {
	Secret          string `mapstructure:"secret"`
	Issuer          string `mapstructure:"issuer"`
	ExpirationHours int    `mapstructure:"expiration_hours"`
}

// LogstashConfig 远程日志，Address 为空时只输出到 stdout
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// MailConfig 邮件 HTTP 接口，URL 为空时只记录日志
type MailConfig struct {
	URL            string `mapstructure:"url"`
	ApiKey         string `mapstructure:"api_key"`
	From           string `mapstructure:"from"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// ElasticConfig Elastic配置，Address 为空时关闭搜索
type ElasticConfig struct {
	Address  string         `mapstructure:"address"`
	Username string         `mapstructure:"username"`
	Password string         `mapstructure:"password"`
	Indices  ElasticIndices `mapstructure:"indices"`
}

// ElasticIndices Elastic索引
type ElasticIndices struct {
	StoryIndex string `mapstructure:"story_index"`
}

// KafkaConfig Brokers 为空时不发送事件，也不启动消费者
type KafkaConfig struct {
	Brokers      []string       `mapstructure:"brokers"`
	Sasl         SaslConfig     `mapstructure:"sasl"`
	Consumer     ConsumerConfig `mapstructure:"consumer"`
	StoryTopic   string         `mapstructure:"story_topic"`
	StoryGroupID string         `mapstructure:"story_group_id"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
}

// CronConfig 定时任务表达式
type CronConfig struct {
	StoryReindex string `mapstructure:"story_reindex"`
}

// LimitsConfig 每分钟尝试次数
type LimitsConfig struct {
	SignInPerMinute int `mapstructure:"sign_in_per_minute"`
	ClaimPerMinute  int `mapstructure:"claim_per_minute"`
}

type CacheConfig struct {
	ListTTLSeconds   int `mapstructure:"list_ttl_seconds"`
	DetailTTLSeconds int `mapstructure:"detail_ttl_seconds"`
}
