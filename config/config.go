package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	BaseURL     string `mapstructure:"BASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSSLMode  string `mapstructure:"DB_SSLMODE"`

	RedisURL string `mapstructure:"REDIS_URL"`

	GeocoderURL    string `mapstructure:"GEOCODER_URL"`
	GeocoderAPIKey string `mapstructure:"GEOCODER_API_KEY"`

	// Image-hosting credentials. Only the key pair is configurable; the
	// hosting bucket name is a fixed constant in the imagehost package.
	ImageHostEndpoint  string `mapstructure:"IMGHOST_ENDPOINT"`
	ImageHostRegion    string `mapstructure:"IMGHOST_REGION"`
	ImageHostAPIKey    string `mapstructure:"IMGHOST_API_KEY"`
	ImageHostAPISecret string `mapstructure:"IMGHOST_API_SECRET"`

	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUser     string `mapstructure:"SMTP_USER"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom     string `mapstructure:"SMTP_FROM"`
}

func LoadConfig() *Config {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found; using environment variables and defaults")
		} else {
			log.Fatalf("Error reading config file: %s", err)
		}
	}

	// Set default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("JWT_SECRET", "your-secret-key-change-in-production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "campwild")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("GEOCODER_URL", "https://maps.googleapis.com/maps/api/geocode/json")
	viper.SetDefault("IMGHOST_ENDPOINT", "http://localhost:9000")
	viper.SetDefault("IMGHOST_REGION", "us-east-1")
	viper.SetDefault("SMTP_HOST", "localhost")
	viper.SetDefault("SMTP_PORT", "25")
	viper.SetDefault("SMTP_FROM", "noreply@campwild.local")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode config into struct, %v", err)
	}

	return &config
}
