package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DbHost    string
	DbPort    string
	DbUser    string
	DbPass    string
	DbName    string
	DbSSLMode string
	Store     string // postgres|memory

	JWTSecret string

	Log      string
	LogLevel string
	Env      string // dev|prod

	BaseURL         string
	SiteTitle       string
	SiteDescription string

	StorageDriver      string // local|gcs
	StorageDir         string
	GCSBucket          string
	GCSCredentialsFile string
	MediaURLPrefix     string

	UploadMaxMB       int
	ImageQuality      int
	HeaderImageWidth  int
	HeaderImageHeight int
	TranscodeWorkers  int
	MaxImagePixels    int
}

// LoadConfig loads .env, reads the environment and applies defaults.
// It never logs so the logger can depend on it.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	def := func(v, d string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return d
		}
		return v
	}

	cfg := &Config{
		Port:      def(os.Getenv("PORT"), "8080"),
		DbHost:    os.Getenv("DB_HOST"),
		DbPort:    def(os.Getenv("DB_PORT"), "5432"),
		DbUser:    os.Getenv("DB_USER"),
		DbPass:    os.Getenv("DB_PASSWORD"),
		DbName:    os.Getenv("DB_NAME"),
		DbSSLMode: def(os.Getenv("DB_SSLMODE"), "disable"),
		Store:     strings.ToLower(def(os.Getenv("STORE"), "postgres")),

		JWTSecret: os.Getenv("JWT_SECRET"),

		Log:      os.Getenv("LOG"),
		LogLevel: strings.ToLower(def(os.Getenv("LOGLEVEL"), "info")),
		Env:      strings.ToLower(def(os.Getenv("ENV"), "prod")),

		BaseURL:         strings.TrimRight(def(os.Getenv("BASE_URL"), "http://localhost:8080"), "/"),
		SiteTitle:       def(os.Getenv("SITE_TITLE"), "Artsy Thoughts"),
		SiteDescription: def(os.Getenv("SITE_DESCRIPTION"), "A creative space for artistic ideas and thoughts."),

		StorageDriver:      strings.ToLower(def(os.Getenv("STORAGE_DRIVER"), "local")),
		StorageDir:         def(os.Getenv("STORAGE_DIR"), "uploads"),
		GCSBucket:          os.Getenv("GCS_BUCKET_NAME"),
		GCSCredentialsFile: os.Getenv("GCS_CREDENTIALS_FILE"),
		MediaURLPrefix:     strings.TrimRight(def(os.Getenv("MEDIA_URL_PREFIX"), "/files"), "/"),
	}

	var err error
	ints := []struct {
		dst *int
		key string
		def int
	}{
		{&cfg.UploadMaxMB, "UPLOAD_MAX_MB", 10},
		{&cfg.ImageQuality, "IMAGE_QUALITY", 80},
		{&cfg.HeaderImageWidth, "HEADER_IMAGE_WIDTH", 960},
		{&cfg.HeaderImageHeight, "HEADER_IMAGE_HEIGHT", 540},
		{&cfg.TranscodeWorkers, "TRANSCODE_WORKERS", runtime.NumCPU()},
		{&cfg.MaxImagePixels, "MAX_IMAGE_PIXELS", 50_000_000},
	}
	for _, it := range ints {
		if *it.dst, err = intEnv(it.key, it.def); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

func intEnv(key string, d int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return d, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return n, nil
}

// Validate returns warnings and a fatal error when the config cannot work.
func (c *Config) Validate() (warnings []string, err error) {
	switch c.Store {
	case "postgres":
		if c.DbHost == "" || c.DbUser == "" || c.DbName == "" {
			return nil, fmt.Errorf("incomplete DB config (DB_HOST/DB_USER/DB_NAME)")
		}
	case "memory":
		warnings = append(warnings, "STORE=memory: records are lost on restart")
	default:
		return nil, fmt.Errorf("unknown STORE %q", c.Store)
	}

	switch c.StorageDriver {
	case "local":
		if c.StorageDir == "" {
			return nil, fmt.Errorf("STORAGE_DIR is empty")
		}
	case "gcs":
		if c.GCSBucket == "" {
			return nil, fmt.Errorf("GCS_BUCKET_NAME is required for STORAGE_DRIVER=gcs")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if strings.TrimSpace(c.JWTSecret) == "" {
		warnings = append(warnings, "JWT_SECRET is empty, every request is anonymous")
	}
	if c.ImageQuality > 100 {
		warnings = append(warnings, "IMAGE_QUALITY above 100, clamped by encoder")
	}

	return warnings, nil
}

// GetDSN returns the full DSN including the password.
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbPass, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// GetDSNSafe returns the DSN without the password, for logs.
func (c *Config) GetDSNSafe() string {
	return fmt.Sprintf(
		"postgres://%s:***@%s:%s/%s?sslmode=%s",
		c.DbUser, c.DbHost, c.DbPort, c.DbName, c.DbSSLMode,
	)
}

// UploadMaxBytes is the multipart body limit.
func (c *Config) UploadMaxBytes() int64 {
	return int64(c.UploadMaxMB) << 20
}
