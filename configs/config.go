package config

import (
	"os"
)

type ServerConfig struct {
	Port        string
	FrontendURL string // CORS origin; empty means allow all
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type AuthConfig struct {
	AdminPassword string
	JWTSecret     string
}

type RedisConfig struct {
	Addr string // empty disables the catalog cache
}

type RabbitConfig struct {
	URL      string // empty disables event publishing
	Exchange string
}

type AfricaTalkingConfig struct {
	Username string
	APIKey   string
	SMSURL   string
	SenderID string
}

type EmailConfig struct {
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSRegion          string
	SenderEmail        string
}

// NotifyConfig holds the admin contact points for new-order alerts. Empty
// values disable the corresponding channel.
type NotifyConfig struct {
	AdminPhone string
	AdminEmail string
}

func LoadServerConfig() ServerConfig {
	return ServerConfig{
		Port:        getEnvOrDefault("PORT", "3001"),
		FrontendURL: os.Getenv("FRONTEND_URL"),
	}
}

func LoadDBConfig() DBConfig {
	return DBConfig{
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     getEnvOrDefault("DB_NAME", "baratelli"),
	}
}

func LoadAuthConfig() AuthConfig {
	return AuthConfig{
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
	}
}

func LoadRedisConfig() RedisConfig {
	return RedisConfig{
		Addr: os.Getenv("REDIS_ADDR"),
	}
}

func LoadRabbitConfig() RabbitConfig {
	return RabbitConfig{
		URL:      os.Getenv("RABBITMQ_URL"),
		Exchange: getEnvOrDefault("RABBITMQ_EXCHANGE", "order.exchange"),
	}
}

func LoadAfricaTalkingConfig() AfricaTalkingConfig {
	return AfricaTalkingConfig{
		Username: os.Getenv("AT_USERNAME"),
		APIKey:   os.Getenv("AT_API_KEY"),
		SMSURL:   getEnvOrDefault("AT_SMS_URL", "https://api.sandbox.africastalking.com/version1/messaging"), // Sandbox URL
		SenderID: getEnvOrDefault("AT_SENDER_ID", "AFRICASTKNG"), // Default sandbox sender ID
	}
}

func LoadEmailConfig() EmailConfig {
	return EmailConfig{
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSRegion:          getEnvOrDefault("AWS_REGION", "us-east-1"),
		SenderEmail:        os.Getenv("AWS_SENDER_ADDRESS"),
	}
}

func LoadNotifyConfig() NotifyConfig {
	return NotifyConfig{
		AdminPhone: os.Getenv("ADMIN_PHONE"),
		AdminEmail: os.Getenv("ADMIN_EMAIL"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
