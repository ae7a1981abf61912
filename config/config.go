package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the service needs. It is built once in
// main and handed to constructors; business logic never reads the environment.
type Config struct {
	Port              string
	MongoURI          string
	DBName            string
	JWTSecret         string
	RazorpayKeyID     string
	RazorpayKeySecret string
	GoogleClientID    string
	UploadDir         string
	ServiceName       string
	Env               string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getenv("PORT", "8080"),
		MongoURI:          os.Getenv("MONGO_URI"),
		DBName:            os.Getenv("DB_NAME"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		GoogleClientID:    os.Getenv("GOOGLE_CLIENT_ID"),
		UploadDir:         getenv("UPLOAD_DIR", "uploads"),
		ServiceName:       getenv("SERVICE_NAME", "ateaze"),
		Env:               getenv("ENV", "dev"),
	}

	if cfg.MongoURI == "" || cfg.DBName == "" {
		return nil, fmt.Errorf("config: MONGO_URI and DB_NAME are required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	if cfg.RazorpayKeyID == "" || cfg.RazorpayKeySecret == "" {
		return nil, fmt.Errorf("config: RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET are required")
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
