package config

import (
	"log"
	"os"

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

	// Signing secret for checkout return tokens.
	TokenSecret string

	// bcrypt hash of the key trusted internal services send in X-Service-Auth.
	InternalKeyHash string

	Stripe       StripeConfig
	PayHere      PayHereConfig
	EzCash       WalletConfig
	MCash        WalletConfig
	BankTransfer BankTransferConfig
}

type StripeConfig struct {
	SecretKey string
	BaseURL   string
}

type PayHereConfig struct {
	MerchantID     string
	MerchantSecret string
	NotifyURL      string
	Sandbox        bool
}

// WalletConfig covers the mobile-wallet providers (eZ Cash, mCash),
// which share the same merchant-id + API-key credential shape.
type WalletConfig struct {
	MerchantID string
	APIKey     string
	BaseURL    string
}

type BankTransferConfig struct {
	BankName      string
	AccountName   string
	AccountNumber string
	BranchCode    string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:          os.Getenv("DB_HOST"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		DBPort:          os.Getenv("DB_PORT"),
		AppPort:         os.Getenv("APP_PORT"),
		AppEnv:          os.Getenv("APP_ENV"),
		TokenSecret:     os.Getenv("TOKEN_SECRET"),
		InternalKeyHash: os.Getenv("INTERNAL_KEY_HASH"),
		Stripe: StripeConfig{
			SecretKey: os.Getenv("STRIPE_SECRET_KEY"),
			BaseURL:   getenvDefault("STRIPE_BASE_URL", "https://api.stripe.com"),
		},
		PayHere: PayHereConfig{
			MerchantID:     os.Getenv("PAYHERE_MERCHANT_ID"),
			MerchantSecret: os.Getenv("PAYHERE_MERCHANT_SECRET"),
			NotifyURL:      os.Getenv("PAYHERE_NOTIFY_URL"),
			Sandbox:        os.Getenv("PAYHERE_SANDBOX") != "false",
		},
		EzCash: WalletConfig{
			MerchantID: os.Getenv("EZCASH_MERCHANT_ID"),
			APIKey:     os.Getenv("EZCASH_API_KEY"),
			BaseURL:    getenvDefault("EZCASH_BASE_URL", "https://ezcash.dialog.lk/payment"),
		},
		MCash: WalletConfig{
			MerchantID: os.Getenv("MCASH_MERCHANT_ID"),
			APIKey:     os.Getenv("MCASH_API_KEY"),
			BaseURL:    getenvDefault("MCASH_BASE_URL", "https://mcash.mobitel.lk/payment"),
		},
		BankTransfer: BankTransferConfig{
			BankName:      os.Getenv("BANK_NAME"),
			AccountName:   os.Getenv("BANK_ACCOUNT_NAME"),
			AccountNumber: os.Getenv("BANK_ACCOUNT_NUMBER"),
			BranchCode:    os.Getenv("BANK_BRANCH_CODE"),
		},
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
