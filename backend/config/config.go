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
	JWTSecret  string
	ServerPort string

	// Email, который при регистрации получает роль admin (bootstrap пустой базы)
	AdminEmail string

	// Настройки Together.ai (совместимый с OpenAI chat completions API)
	TogetherBaseURL string
	TogetherAPIKey  string
	TogetherModel   string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "interviewer"),
		DBPassword: getEnv("DB_PASSWORD", "interviewer"),
		DBName:     getEnv("DB_NAME", "interviewerdatabase"),
		JWTSecret:  getEnv("JWT_SECRET", "secret"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		AdminEmail: getEnv("ADMIN_EMAIL", "admin@example.com"),

		TogetherBaseURL: getEnv("TOGETHER_BASE_URL", "https://api.together.xyz"),
		TogetherAPIKey:  getEnv("TOGETHER_API_KEY", ""),
		TogetherModel:   getEnv("TOGETHER_MODEL", "meta-llama/Llama-3.3-70B-Instruct-Turbo"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
