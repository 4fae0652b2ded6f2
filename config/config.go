package config

import (
	"log"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port     string `env:"PORT" env-default:"4000"`
	GinMode  string `env:"GIN_MODE" env-default:"debug"`
	MongoURI string `env:"MONGODB_URI" env-default:"mongodb://127.0.0.1:27017"`
	DBName   string `env:"DB_NAME" env-default:"serene"`

	JWTSecret string `env:"JWT_SECRET"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `env:"GOOGLE_REDIRECT_URL"`

	FrontendBaseURL string `env:"FRONTEND_BASE_URL" env-default:"http://localhost:3000"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" env-default:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" env-default:"no-reply@serene.app"`
	ModeratorsTo string `env:"MODERATORS_EMAIL"`

	CloudinaryURL string `env:"CLOUDINARY_URL"`

	VapidPublicKey  string `env:"VAPID_PUBLIC_KEY"`
	VapidPrivateKey string `env:"VAPID_PRIVATE_KEY"`
	VapidSubscriber string `env:"VAPID_SUBSCRIBER" env-default:"mailto:admin@serene.app"`
}

// App is the process-wide configuration, populated once by Load.
var App Config

func Load() error {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading config from environment")
	}
	return cleanenv.ReadEnv(&App)
}
