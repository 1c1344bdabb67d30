package config

import (
	_ "embed"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Matching MatchingConfig `yaml:"matching"`
	Database DatabaseConfig `yaml:"database"`
	Photos   PhotosConfig   `yaml:"photos"`
	Web      WebConfig      `yaml:"web"`
	Log      LogConfig      `yaml:"log"`
}

type MatchingConfig struct {
	Threshold        float64 `yaml:"threshold"`         // max Euclidean distance for a match (strict <)
	Dimension        int     `yaml:"dimension"`         // descriptor length, 128 for face-api.js
	RejectDuplicates bool    `yaml:"reject_duplicates"` // run the duplicate check inside Register
}

type DatabaseConfig struct {
	Driver       string `yaml:"driver"` // postgres, mariadb or sqlite
	URL          string `yaml:"url"`    // DSN passed to the driver
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

type PhotosConfig struct {
	Backend  string      `yaml:"backend"` // local, minio or memory
	Dir      string      `yaml:"dir"`     // root directory for the local backend
	MaxBytes int         `yaml:"max_bytes"`
	MinIO    MinIOConfig `yaml:"minio"`
}

type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type WebConfig struct {
	MaxRequestBytes int64    `yaml:"max_request_bytes"`
	AllowedOrigins  []string `yaml:"allowed_origins"` // CORS whitelist, localhost is always allowed
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable as a positive float.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return f
	}
	return defaultVal
}

// envBool reads an environment variable as a boolean ("1", "true", "yes").
func envBool(key string, defaultVal bool) bool {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return defaultVal
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return strings.EqualFold(s, "yes")
}

// envString returns the env var or the default when unset.
func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envList splits a comma-separated env var, dropping empty items.
func envList(key string) []string {
	var items []string
	for item := range strings.SplitSeq(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Defaults returns the embedded defaults without applying the environment.
func Defaults() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		// embedded file, cannot fail outside of development
		panic("failed to unmarshal embedded defaults.yaml: " + err.Error())
	}
	return &cfg
}

func Load() *Config {
	d := Defaults()

	return &Config{
		Matching: MatchingConfig{
			Threshold:        envFloat("MATCH_THRESHOLD", d.Matching.Threshold),
			Dimension:        envInt("EMBEDDING_DIM", d.Matching.Dimension),
			RejectDuplicates: envBool("REJECT_DUPLICATES", d.Matching.RejectDuplicates),
		},
		Database: DatabaseConfig{
			Driver:       envString("DATABASE_DRIVER", "postgres"),
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Photos: PhotosConfig{
			Backend:  envString("PHOTO_BACKEND", d.Photos.Backend),
			Dir:      envString("PHOTO_DIR", d.Photos.Dir),
			MaxBytes: envInt("PHOTO_MAX_BYTES", d.Photos.MaxBytes),
			MinIO: MinIOConfig{
				Endpoint:  os.Getenv("MINIO_ENDPOINT"),
				AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
				SecretKey: os.Getenv("MINIO_SECRET_KEY"),
				Bucket:    envString("MINIO_BUCKET", "faces"),
				Prefix:    os.Getenv("MINIO_PREFIX"),
				UseSSL:    envBool("MINIO_USE_SSL", false),
			},
		},
		Web: WebConfig{
			MaxRequestBytes: int64(envInt("WEB_MAX_REQUEST_BYTES", int(d.Web.MaxRequestBytes))),
			AllowedOrigins:  envList("WEB_ALLOWED_ORIGINS"),
		},
		Log: LogConfig{
			Level:  envString("LOG_LEVEL", d.Log.Level),
			Format: envString("LOG_FORMAT", d.Log.Format),
		},
	}
}
