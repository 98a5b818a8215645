package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	PORT          string
	DATABASE_URL  string
	REDIS_URL     string
	ES_URL        string
	ES_USER       string
	ES_PASSWORD   string
	KAFKA_ADDRESS string
	JWT_SECRET    string
	PEPPER        string
	STORAGE_KIND  string
	UPLOAD_DIR    string
	LOG_LEVEL     string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		PORT:          getDefault("PORT", "8080"),
		DATABASE_URL:  os.Getenv("DATABASE_URL"),
		REDIS_URL:     os.Getenv("REDIS_URL"),
		ES_URL:        os.Getenv("ES_URL"),
		ES_USER:       os.Getenv("ES_USER"),
		ES_PASSWORD:   os.Getenv("ES_PASSWORD"),
		KAFKA_ADDRESS: os.Getenv("KAFKA_ADDRESS"),
		JWT_SECRET:    os.Getenv("JWT_SECRET"),
		PEPPER:        os.Getenv("PEPPER"),
		STORAGE_KIND:  getDefault("STORAGE_KIND", "fs"),
		UPLOAD_DIR:    getDefault("UPLOAD_DIR", "uploads"),
		LOG_LEVEL:     getDefault("LOG_LEVEL", "info"),
	}

	if config.JWT_SECRET == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if config.STORAGE_KIND != "fs" && config.STORAGE_KIND != "db" {
		return nil, fmt.Errorf("STORAGE_KIND must be fs or db, got %q", config.STORAGE_KIND)
	}

	return config, nil
}

func getDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
