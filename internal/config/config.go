package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port              string
	DatabaseURL       string
	JWTSecret         []byte
	CORSOrigins       []string
	RequestTimeoutSec int
	DBMaxConns        int
	DBMinConns        int
	DBMaxConnLifetime time.Duration
	// Chiffrement des numéros NISS (format "v1:base64key,v2:...")
	DataEncryptionKeys string
	CurrentDataKeyVer  string
	// Public URL of the app, used in attestation verification links.
	AppPublicURL string
	// SMTP pour les e-mails de rappel de rendez-vous
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPass      string
	SMTPFromName  string
	SMTPFromEmail string
	// WhatsApp (Twilio) pour les rappels de rendez-vous
	TwilioAccountSid   string
	TwilioAuthToken    string
	TwilioWhatsAppFrom string
	// Rate limit on /api/login (requests per second per IP).
	LoginRateLimit float64
	LoginRateBurst int
}

func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 32 {
		jwtSecret = "default-secret-min-32-chars-required!!"
	}
	cors := os.Getenv("CORS_ORIGINS")
	if cors == "" {
		cors = "http://localhost:3000"
	}
	var origins []string
	for _, o := range strings.Split(cors, ",") {
		if t := strings.TrimSpace(o); t != "" {
			origins = append(origins, t)
		}
	}
	return &Config{
		Port:               port,
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          []byte(jwtSecret),
		CORSOrigins:        origins,
		RequestTimeoutSec:  intEnv("REQUEST_TIMEOUT_SEC", 30),
		DBMaxConns:         intEnv("DB_MAX_CONNS", 0),
		DBMinConns:         intEnv("DB_MIN_CONNS", 0),
		DBMaxConnLifetime:  time.Duration(intEnv("DB_MAX_CONN_LIFETIME_MIN", 0)) * time.Minute,
		DataEncryptionKeys: getEnv("DATA_ENCRYPTION_KEYS", "v1:AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"),
		CurrentDataKeyVer:  getEnv("CURRENT_DATA_KEY_VERSION", "v1"),
		AppPublicURL:       getEnv("APP_PUBLIC_URL", "http://localhost:3000"),
		SMTPHost:           getEnv("SMTP_HOST", "localhost"),
		SMTPPort:           getEnv("SMTP_PORT", "1025"),
		SMTPUser:           os.Getenv("SMTP_USER"),
		SMTPPass:           os.Getenv("SMTP_PASS"),
		SMTPFromName:       getEnv("SMTP_FROM_NAME", "DentAdmin"),
		SMTPFromEmail:      getEnv("SMTP_FROM_EMAIL", "noreply@localhost"),
		TwilioAccountSid:   os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:    os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom: os.Getenv("TWILIO_WHATSAPP_FROM"),
		LoginRateLimit:     floatEnv("LOGIN_RATE_LIMIT", 2),
		LoginRateBurst:     intEnv("LOGIN_RATE_BURST", 5),
	}
}

func getEnv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func intEnv(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

func floatEnv(k string, d float64) float64 {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return d
}
