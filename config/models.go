package config

// Config holds the configuration of the application
// Use config.LoadConfig to create a new instance
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    json:"server"`
	Log       LogConfig       `mapstructure:"log"       json:"log"`
	Models    ModelsConfig    `mapstructure:"models"    json:"models"`
	Cache     CacheConfig     `mapstructure:"cache"     json:"cache"`
	UI        UIConfig        `mapstructure:"ui"        json:"ui"`
	Metrics   MetricsConfig   `mapstructure:"metrics"   json:"metrics"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" json:"telemetry"`
}

type ServerConfig struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port" validate:"min=1,max=65535"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"  json:"level"`
	Format string `mapstructure:"format" json:"format" validate:"omitempty,oneof=text json"`
}

// ModelsConfig lists the pipelines offered in the model selector. Each name
// must be a pipeline directory under Dir.
type ModelsConfig struct {
	Dir   string   `mapstructure:"dir"   json:"dir"   validate:"required"`
	Names []string `mapstructure:"names" json:"names" validate:"required,min=1,dive,required"`
}

type CacheConfig struct {
	// Policy is the eviction policy of the in-memory document cache:
	// "unbounded" or "lru".
	Policy string `mapstructure:"policy" json:"policy" validate:"oneof=unbounded lru"`
	// MaxEntries bounds the document cache and must be positive for "lru".
	MaxEntries int `mapstructure:"max_entries" json:"max_entries" validate:"min=0,required_if=Policy lru"`
	// Backend stores processed documents: "memory" or "redis". Pipelines are
	// always kept in memory.
	Backend string      `mapstructure:"backend" json:"backend" validate:"oneof=memory redis"`
	Redis   RedisConfig `mapstructure:"redis"   json:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"     json:"addr"`
	Password string `mapstructure:"password" json:"password"`
	DB       int    `mapstructure:"db"       json:"db"`
	// TTL in seconds. 0 keeps documents until Redis evicts them.
	TTL    int    `mapstructure:"ttl"    json:"ttl"`
	Prefix string `mapstructure:"prefix" json:"prefix"`
}

type UIConfig struct {
	Title       string            `mapstructure:"title"        json:"title"`
	Description string            `mapstructure:"description"  json:"description"`
	SampleTexts map[string]string `mapstructure:"sample_texts" json:"sample_texts"`
	Colors      map[string]string `mapstructure:"colors"       json:"colors"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" json:"enabled"`
	Path    string `mapstructure:"path"    json:"path"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"      json:"enabled"`
	Endpoint    string `mapstructure:"endpoint"     json:"endpoint"`
	ServiceName string `mapstructure:"service_name" json:"service_name"`
	Insecure    bool   `mapstructure:"insecure"     json:"insecure"`
}
