package config

import "github.com/caarlos0/env/v9"

type Config struct {
	Port                   string `env:"PORT" envDefault:"8080"`
	DBUser                 string `env:"DB_USER,required"`
	DBPassword             string `env:"DB_PASSWORD,required"`
	DBHost                 string `env:"DB_HOST,required"` // e.g. tcp(host:3306) or unix(/cloudsql/instance)
	DBName                 string `env:"DB_NAME,required"`
	DBPort                 string `env:"DB_PORT" envDefault:"3306"`
	InstanceConnectionName string `env:"INSTANCE_CONNECTION_NAME"`

	FirebaseProjectID     string `env:"FIREBASE_PROJECT_ID"`
	StorageBucket         string `env:"STORAGE_BUCKET"`
	GoogleCredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`

	// Signing secret of the identity provider webhook (whsec_...).
	WebhookSigningSecret string `env:"SIGNING_SECRET"`

	RabbitURL      string `env:"RABBIT_URL"`
	RabbitExchange string `env:"RABBIT_EXCHANGE" envDefault:"raqtkosh.events"`

	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"vercel.app"`

	GitSHA    string `env:"GIT_SHA" envDefault:"dev"`
	BuildTime string `env:"BUILD_TIME"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
