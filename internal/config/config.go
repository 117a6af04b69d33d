package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is populated from the environment, prefix CAMPUSBITES.
type Config struct {
	HTTPPort        string        `envconfig:"HTTP_PORT" default:"8001"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	MongoURL string `envconfig:"MONGO_URL" default:"mongodb://localhost:27017"`
	MongoDB  string `envconfig:"DB_NAME" default:"campus_bites"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	PostgresHost     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	PostgresPort     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	PostgresUser     string `envconfig:"POSTGRES_USER" default:"postgres"`
	PostgresPassword string `envconfig:"POSTGRES_PASSWORD" default:"postgres"`
	PostgresDB       string `envconfig:"POSTGRES_DB" default:"campus_bites"`
	MigrationsDir    string `envconfig:"MIGRATIONS_DIR" default:"migrations"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`

	JWTSecret string        `envconfig:"JWT_SECRET" default:"dev-secret-change-me"`
	JWTTTL    time.Duration `envconfig:"JWT_TTL" default:"168h"`

	RazorpayEnabled   bool   `envconfig:"RAZORPAY_ENABLED" default:"false"`
	RazorpayKeyID     string `envconfig:"RAZORPAY_KEY_ID" default:"rzp_test_demo"`
	RazorpayKeySecret string `envconfig:"RAZORPAY_KEY_SECRET" default:""`

	OpenAIKey   string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel string `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("CAMPUSBITES", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
