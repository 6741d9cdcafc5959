package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer

	BaseURL      string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"mediastore.db"`
	SecretKey    string `env:"SECRET_KEY" envDefault:"dev-secret"`
	Currency     string `env:"CURRENCY" envDefault:"usd"`

	Admin   Admin   `envPrefix:"ADMIN_"`
	Stripe  Stripe  `envPrefix:"STRIPE_"`
	Storage Storage `envPrefix:"STORAGE_"`
}

type Stripe struct {
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Storage struct {
	// "local" or "s3"
	Backend     string `env:"BACKEND" envDefault:"local"`
	MediaFolder string `env:"MEDIA_FOLDER" envDefault:"media"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"`
}

type Admin struct {
	Username string `env:"USERNAME" envDefault:"admin"`
	Password string `env:"PASSWORD" envDefault:"admin"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
