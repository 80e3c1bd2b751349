package configs

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is built once at process start and handed to every constructor.
type Config struct {
	Env  string
	Port string

	Database DatabaseConfig
	JWT      JWTConfig
	Payment  PaymentConfig
	Storage  StorageConfig
	Admin    SuperAdminConfig

	BcryptCost  int
	FrontendURL string
	BackendURL  string
	CORSOrigins []string
	// per-request context deadline, also bounds DB statements issued by the handler
	RequestTimeout time.Duration
}

type DatabaseConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	AccessSecret   string
	AccessExpires  time.Duration
	RefreshSecret  string
	RefreshExpires time.Duration
}

type PaymentConfig struct {
	MidtransServerKey  string
	MidtransProduction bool
	GatewayTimeout     time.Duration
	VerifyRedirects    bool
	SuccessURL         string
	FailURL            string
	CancelURL          string
}

type StorageConfig struct {
	OSSEndpoint      string
	OSSAccessKey     string
	OSSSecretKey     string
	OSSSecurityToken string
	OSSBucket        string
	OSSPublicBase    string
	OSSPrefix        string
	UploadDir        string
	UploadPublicBase string
}

type SuperAdminConfig struct {
	Email    string
	Password string
	Name     string
}

// UseOSS reports whether every key the OSS client needs is present.
func (s StorageConfig) UseOSS() bool {
	return s.OSSEndpoint != "" && s.OSSAccessKey != "" && s.OSSSecretKey != "" && s.OSSBucket != ""
}

func (c *Config) IsDevelopment() bool { return c.Env != EnvProduction }

// DSN returns DATABASE_URL when set, otherwise a URL assembled from DB_* parts.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=eventhub",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

/* =======================
   ENV LOADER
======================= */

// Load reads envFile (when present) into the process environment and builds
// the Config. Variables already set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			slog.Info("env file not loaded, using process environment", "file", envFile)
		} else {
			slog.Info("env file loaded", "file", envFile)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env:  strings.ToLower(v.GetString("APP_ENV")),
		Port: v.GetString("PORT"),
		Database: DatabaseConfig{
			URL:      v.GetString("DATABASE_URL"),
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		JWT: JWTConfig{
			AccessSecret:   v.GetString("JWT_ACCESS_SECRET"),
			AccessExpires:  v.GetDuration("JWT_ACCESS_EXPIRES"),
			RefreshSecret:  v.GetString("JWT_REFRESH_SECRET"),
			RefreshExpires: v.GetDuration("JWT_REFRESH_EXPIRES"),
		},
		Payment: PaymentConfig{
			MidtransServerKey:  v.GetString("MIDTRANS_SERVER_KEY"),
			MidtransProduction: v.GetBool("MIDTRANS_PRODUCTION"),
			GatewayTimeout:     v.GetDuration("MIDTRANS_TIMEOUT"),
			VerifyRedirects:    v.GetBool("PAYMENT_VERIFY_REDIRECTS"),
			SuccessURL:         v.GetString("PAYMENT_SUCCESS_URL"),
			FailURL:            v.GetString("PAYMENT_FAIL_URL"),
			CancelURL:          v.GetString("PAYMENT_CANCEL_URL"),
		},
		Storage: StorageConfig{
			OSSEndpoint:      v.GetString("ALI_OSS_ENDPOINT"),
			OSSAccessKey:     v.GetString("ALI_OSS_ACCESS_KEY"),
			OSSSecretKey:     v.GetString("ALI_OSS_SECRET_KEY"),
			OSSSecurityToken: v.GetString("ALI_OSS_SECURITY_TOKEN"),
			OSSBucket:        v.GetString("ALI_OSS_BUCKET"),
			OSSPublicBase:    v.GetString("ALI_OSS_PUBLIC_BASE"),
			OSSPrefix:        v.GetString("ALI_OSS_PREFIX"),
			UploadDir:        v.GetString("UPLOAD_DIR"),
			UploadPublicBase: v.GetString("UPLOAD_PUBLIC_BASE"),
		},
		Admin: SuperAdminConfig{
			Email:    v.GetString("SUPER_ADMIN_EMAIL"),
			Password: v.GetString("SUPER_ADMIN_PASSWORD"),
			Name:     v.GetString("SUPER_ADMIN_NAME"),
		},
		BcryptCost:     v.GetInt("BCRYPT_SALT_ROUND"),
		FrontendURL:    strings.TrimRight(v.GetString("FRONTEND_URL"), "/"),
		BackendURL:     strings.TrimRight(v.GetString("BACKEND_URL"), "/"),
		CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
	}

	if cfg.Payment.SuccessURL == "" {
		cfg.Payment.SuccessURL = cfg.FrontendURL + "/payment/success"
	}
	if cfg.Payment.FailURL == "" {
		cfg.Payment.FailURL = cfg.FrontendURL + "/payment/fail"
	}
	if cfg.Payment.CancelURL == "" {
		cfg.Payment.CancelURL = cfg.FrontendURL + "/payment/cancel"
	}
	if len(cfg.CORSOrigins) == 0 && cfg.FrontendURL != "" {
		cfg.CORSOrigins = []string{cfg.FrontendURL}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("PORT", "5000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("JWT_ACCESS_EXPIRES", "24h")
	v.SetDefault("JWT_REFRESH_EXPIRES", "720h")
	v.SetDefault("BCRYPT_SALT_ROUND", 10)
	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("BACKEND_URL", "http://localhost:5000")
	v.SetDefault("MIDTRANS_PRODUCTION", false)
	v.SetDefault("MIDTRANS_TIMEOUT", "15s")
	v.SetDefault("PAYMENT_VERIFY_REDIRECTS", true)
	v.SetDefault("SUPER_ADMIN_NAME", "Super Admin")
	v.SetDefault("UPLOAD_DIR", "./uploads")
	v.SetDefault("UPLOAD_PUBLIC_BASE", "/uploads")
	v.SetDefault("REQUEST_TIMEOUT", "10s")
}

// Validate rejects a configuration the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.JWT.AccessSecret) == "" {
		errs = append(errs, errors.New("JWT_ACCESS_SECRET is not set"))
	}
	if strings.TrimSpace(c.JWT.RefreshSecret) == "" {
		errs = append(errs, errors.New("JWT_REFRESH_SECRET is not set"))
	}
	if c.JWT.AccessExpires <= 0 || c.JWT.RefreshExpires <= 0 {
		errs = append(errs, errors.New("JWT_ACCESS_EXPIRES and JWT_REFRESH_EXPIRES must be positive durations"))
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		errs = append(errs, fmt.Errorf("BCRYPT_SALT_ROUND out of range: %d", c.BcryptCost))
	}
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		errs = append(errs, fmt.Errorf("APP_ENV must be %q or %q", EnvDevelopment, EnvProduction))
	}
	return errors.Join(errs...)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.TrimRight(p, "/"))
		}
	}
	return out
}
