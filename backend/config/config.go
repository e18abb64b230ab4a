package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string

	// Shared secret entered by a student to verify a completion.
	CompletionPassphrase string

	// Credential seeded for the teacher account on first run.
	BootstrapTeacherUsername string
	BootstrapTeacherPassword string

	// Optional external session cache. Empty means in-memory sessions.
	RedisAddr     string
	RedisPassword string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "classroom"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		CompletionPassphrase:     getEnv("COMPLETION_PASSPHRASE", ""),
		BootstrapTeacherUsername: getEnv("BOOTSTRAP_TEACHER_USERNAME", "teacher"),
		BootstrapTeacherPassword: getEnv("BOOTSTRAP_TEACHER_PASSWORD", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
