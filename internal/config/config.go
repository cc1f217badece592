package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	// Flutterwave hosted checkout
	FlwSecretKey   string
	FlwPublicKey   string
	FlwWebhookHash string
	RedirectURL    string

	// Wallet payments
	WalletRPCURL   string
	ReceiveAddress string
	RateAPIURL     string

	// Event bus
	KafkaBrokers []string

	// Assistant endpoint
	AssistantAPIKey string
	AssistantAPIURL string
	AssistantModel  string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     os.Getenv("DB_PORT"),
		AppPort:    os.Getenv("APP_PORT"),
		AppEnv:     os.Getenv("APP_ENV"),

		FlwSecretKey:   os.Getenv("FLW_SECRET_KEY"),
		FlwPublicKey:   os.Getenv("FLW_PUBLIC_KEY"),
		FlwWebhookHash: os.Getenv("FLW_WEBHOOK_HASH"),
		RedirectURL:    os.Getenv("PAYMENT_REDIRECT_URL"),

		WalletRPCURL:   os.Getenv("WALLET_RPC_URL"),
		ReceiveAddress: os.Getenv("WALLET_RECEIVE_ADDRESS"),
		RateAPIURL:     os.Getenv("RATE_API_URL"),

		KafkaBrokers: splitBrokers(os.Getenv("KAFKA_BROKERS")),

		AssistantAPIKey: os.Getenv("ASSISTANT_API_KEY"),
		AssistantAPIURL: os.Getenv("ASSISTANT_API_URL"),
		AssistantModel:  os.Getenv("ASSISTANT_MODEL"),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func splitBrokers(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
