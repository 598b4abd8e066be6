package config

import (
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Bot struct {
	Token     string
	AdminID   int64
	AdminName string
	Currency  string
}

type Payment struct {
	CryptoAPIURL  string
	CryptoAPIKey  string
	WebhookSecret string
	PollTimeout   time.Duration
}

type Cache struct {
	Cap          int
	AdminTTL     time.Duration
	ProductTTL   time.Duration
	PromotionTTL time.Duration
	PurchasesTTL time.Duration
}

type Kafka struct {
	Brokers []string
	Topic   string
}

type Breaker struct {
	Threshold   uint32
	OpenTimeout time.Duration
	MaxHalfOpen uint32
}

type Retry struct {
	Attempts     int
	Base         time.Duration
	Max          time.Duration
	JitterFactor float64
}

type Config struct {
	Env             string
	HTTPAddr        string
	DSN             string
	DispatchWorkers int
	OrderTTL        time.Duration
	Promotion       string

	Bot     Bot
	Payment Payment
	Cache   Cache
	Kafka   Kafka
	Breaker Breaker
	Retry   Retry
}

// Load fatals when a required value is missing.
func Load() Config {
	cfg, err := load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	return cfg
}

func load() (Config, error) {
	_ = godotenv.Load("env/.env")

	cfg := Config{
		Env:             envDefault("APP_ENV", "prod"),
		HTTPAddr:        envDefault("HTTP_ADDR", ":8080"),
		DSN:             strings.TrimSpace(os.Getenv("DB_DSN")),
		DispatchWorkers: envInt("DISPATCH_WORKERS", 8),
		OrderTTL:        envDurationMS("ORDER_TTL", 24*time.Hour),
		Promotion:       envDefault("PROMOTION_NAME", "bonus"),

		Bot: Bot{
			Token:     strings.TrimSpace(os.Getenv("BOT_TOKEN")),
			AdminID:   envInt64("ADMIN_ID", 0),
			AdminName: envDefault("ADMIN_NAME", "admin"),
			Currency:  strings.ToUpper(strings.TrimSpace(os.Getenv("STORE_CURRENCY"))),
		},

		Payment: Payment{
			CryptoAPIURL:  strings.TrimSpace(os.Getenv("CRYPTO_API_URL")),
			CryptoAPIKey:  strings.TrimSpace(os.Getenv("CRYPTO_API_KEY")),
			WebhookSecret: strings.TrimSpace(os.Getenv("PAYMENT_WEBHOOK_SECRET")),
			PollTimeout:   envDurationMS("PAYMENT_POLL_TIMEOUT", 10*time.Second),
		},

		Cache: Cache{
			Cap:          envInt("CACHE_CAP", 1000),
			AdminTTL:     envDurationMS("CACHE_TTL_ADMIN", 5*time.Minute),
			ProductTTL:   envDurationMS("CACHE_TTL_PRODUCTS", time.Minute),
			PromotionTTL: envDurationMS("CACHE_TTL_PROMO", 30*time.Second),
			PurchasesTTL: envDurationMS("CACHE_TTL_PURCHASES", 2*time.Minute),
		},

		Kafka: Kafka{
			Brokers: splitCSV(strings.TrimSpace(os.Getenv("KAFKA_BROKERS"))),
			Topic:   envDefault("KAFKA_TOPIC", "storefront.orders"),
		},

		Breaker: Breaker{
			Threshold:   envUint32("BREAKER_THRESHOLD", 5),
			OpenTimeout: envDurationMS("BREAKER_OPENTIMEOUT", 10*time.Second),
			MaxHalfOpen: envUint32("BREAKER_MAXHALFOPEN", 3),
		},

		Retry: Retry{
			Attempts:     envInt("RETRY_ATTEMPTS", 2),
			Base:         envDurationMS("RETRY_BASE", 100*time.Millisecond),
			Max:          envDurationMS("RETRY_MAX", time.Second),
			JitterFactor: envFloat64("RETRY_JITTERFACTOR", 0.3),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var missing []string
	req := map[string]string{
		"BOT_TOKEN":              c.Bot.Token,
		"DB_DSN":                 c.DSN,
		"STORE_CURRENCY":         c.Bot.Currency,
		"CRYPTO_API_URL":         c.Payment.CryptoAPIURL,
		"CRYPTO_API_KEY":         c.Payment.CryptoAPIKey,
		"PAYMENT_WEBHOOK_SECRET": c.Payment.WebhookSecret,
	}
	for k, v := range req {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, k)
		}
	}
	if c.Bot.AdminID == 0 {
		missing = append(missing, "ADMIN_ID")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &missingEnvError{Keys: missing}
	}

	if c.Cache.Cap <= 0 {
		log.Printf("CACHE_CAP is %d, adjusting to 1", c.Cache.Cap)
	}
	if c.DispatchWorkers <= 0 {
		log.Printf("DISPATCH_WORKERS is %d, adjusting to 1", c.DispatchWorkers)
	}
	if c.Retry.Attempts < 1 {
		log.Printf("RETRY_ATTEMPTS is %d, adjusting to 1", c.Retry.Attempts)
	}
	return nil
}

type missingEnvError struct{ Keys []string }

func (e *missingEnvError) Error() string {
	return "missing required envs: " + strings.Join(e.Keys, ", ")
}

func envDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return n
}

func envInt64(k string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return n
}

func envUint32(k string, def uint32) uint32 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	u, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d: %v", k, v, def, err)
		return def
	}
	return uint32(u)
}

func envFloat64(k string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %.3f: %v", k, v, def, err)
		return def
	}
	return f
}

// envDurationMS supports either plain integer milliseconds ("1500") or
// Go duration strings ("1.5s", "250ms", "2m").
func envDurationMS(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if strings.IndexFunc(v, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
			return def
		}
		return d
	}
	ms, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("invalid %s=%q, using default %v: %v", k, v, def, err)
		return def
	}
	return time.Duration(ms) * time.Millisecond
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	out := make([]string, 0, len(raw))
	for _, p := range raw {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
