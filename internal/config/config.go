package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

type Config struct {
	// Remote course service
	APIBaseURL string
	APITimeout time.Duration

	// Session state persistence
	StateBackend  string
	StateDir      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Export delivery
	ExportDir    string
	ExportUpload bool

	// SFTP
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPKnownHosts            string
	SFTPInsecureIgnoreHostKey bool

	LogMode string

	// Dev API
	DevAPIAddr      string
	DevAPINodeID    int64
	DevAPIExportDir string
}

// LoadDotEnv merges variables from the given files (default ".env") into the
// process environment. Missing files are ignored; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("config: load %s: %w", f, err)
		}
	}
	return nil
}

func Load() Config {
	return Config{
		APIBaseURL: getenv("COURSE_API_BASE_URL", "http://localhost:8000/api"),
		APITimeout: getenvDuration("COURSE_API_TIMEOUT", 2*time.Minute),

		StateBackend:  strings.ToLower(getenv("STATE_BACKEND", BackendFile)),
		StateDir:      getenv("STATE_DIR", defaultStateDir()),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),

		ExportDir:    getenv("EXPORT_DIR", "exports"),
		ExportUpload: getenvBool("EXPORT_UPLOAD", false),

		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/inbound"),
		SFTPKnownHosts:            os.Getenv("SFTP_KNOWN_HOSTS"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", true),

		LogMode: getenv("LOG_MODE", "dev"),

		DevAPIAddr:      getenv("DEVAPI_ADDR", ":8000"),
		DevAPINodeID:    int64(getenvInt("DEVAPI_NODE_ID", 1)),
		DevAPIExportDir: getenv("DEVAPI_EXPORT_DIR", filepath.Join(os.TempDir(), "course-studio-exports")),
	}
}

// Validate reports settings that would make the client unusable.
func (c Config) Validate() error {
	var errs []error
	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("COURSE_API_BASE_URL is empty"))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, fmt.Errorf("COURSE_API_TIMEOUT must be positive, got %s", c.APITimeout))
	}
	switch c.StateBackend {
	case BackendFile, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("STATE_BACKEND must be %q or %q, got %q", BackendFile, BackendRedis, c.StateBackend))
	}
	if c.ExportUpload {
		if c.SFTPHost == "" || c.SFTPUser == "" {
			errs = append(errs, errors.New("EXPORT_UPLOAD requires SFTP_HOST and SFTP_USER"))
		}
		if c.SFTPPort < 1 || c.SFTPPort > 65535 {
			errs = append(errs, fmt.Errorf("invalid SFTP_PORT %d", c.SFTPPort))
		}
	}
	return errors.Join(errs...)
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "course-studio")
	}
	return ".course-studio"
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getenvDuration accepts Go durations ("90s") or a bare number of seconds.
func getenvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
