package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultDatabaseDriver   = "mongo"
	defaultDatabaseName     = "DiagnoCare"
	defaultDatabaseHost     = "cluster0.0rmazcr.mongodb.net"
	defaultJWTSecret        = "change-me-in-production"
	defaultAppPort          = "3000"
	defaultAppEnv           = "local"
	defaultStripeCurrency   = "usd"
	defaultFeaturedCacheTTL = 30 * time.Second
	defaultMaxBodyBytes     = 4 << 20
)

// defaultCORSOrigins are the front-ends that talk to this API.
var defaultCORSOrigins = []string{
	"http://localhost:5173",
	"https://api.imgbb.com/1/upload",
	"https://bistro-res.web.app",
}

var (
	loadOnce sync.Once
	loadErr  error

	mu        sync.RWMutex
	values    = map[string]string{}
	overrides = map[string]string{}
)

// Load reads config/app.json and .env once. Missing files are not an error.
// Process environment variables always take precedence over file values.
func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

// Reset forgets loaded values and overrides so the next Load re-reads files.
// Intended for tests.
func Reset() {
	mu.Lock()
	values = map[string]string{}
	overrides = map[string]string{}
	mu.Unlock()
	loadOnce = sync.Once{}
	loadErr = nil
}

// Set overrides a key for the lifetime of the process (or until Reset).
func Set(key, value string) {
	mu.Lock()
	overrides[strings.ToUpper(key)] = value
	mu.Unlock()
}

// ── Database ─────────────────────────────────────────────────────────────────

// DatabaseDriver is "mongo" or "memory".
func DatabaseDriver() string {
	_ = Load()

	driver := strings.ToLower(get("DB_DRIVER", defaultDatabaseDriver))
	switch driver {
	case "mongo", "memory":
		return driver
	default:
		return defaultDatabaseDriver
	}
}

// MongoURI returns MONGODB_URI if set, otherwise an Atlas SRV URI built from
// DB_USER, DB_PASS and DB_HOST.
func MongoURI() string {
	_ = Load()

	if uri := get("MONGODB_URI", ""); uri != "" {
		return uri
	}

	host := get("DB_HOST", defaultDatabaseHost)
	user := get("DB_USER", "")
	if user == "" {
		return "mongodb+srv://" + host + "/?retryWrites=true&w=majority&appName=Cluster0"
	}
	creds := url.UserPassword(user, get("DB_PASS", ""))
	return fmt.Sprintf("mongodb+srv://%s@%s/?retryWrites=true&w=majority&appName=Cluster0", creds.String(), host)
}

func DatabaseName() string {
	_ = Load()
	return get("DB_NAME", defaultDatabaseName)
}

// ── Auth & payments ──────────────────────────────────────────────────────────

// JWTSecret reads JWT_SECRET, falling back to the legacy SECRECT_KEY name.
func JWTSecret() string {
	_ = Load()
	return get("JWT_SECRET", get("SECRECT_KEY", defaultJWTSecret))
}

func StripeSecretKey() string {
	_ = Load()
	return get("STRIPE_SECRET_KEY", "")
}

func StripeCurrency() string {
	_ = Load()
	return strings.ToLower(get("STRIPE_CURRENCY", defaultStripeCurrency))
}

// ── HTTP ─────────────────────────────────────────────────────────────────────

func AppPort() string {
	_ = Load()
	return get("PORT", get("APP_PORT", defaultAppPort))
}

func AppEnv() string {
	_ = Load()
	return get("APP_ENV", defaultAppEnv)
}

func CORSOrigins() []string {
	_ = Load()

	raw := get("CORS_ORIGINS", "")
	if raw == "" {
		return append([]string(nil), defaultCORSOrigins...)
	}

	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// MaxBodyBytes caps decoded request bodies (default 4 MB).
func MaxBodyBytes() int64 {
	_ = Load()

	n, err := strconv.ParseInt(get("MAX_BODY_BYTES", ""), 10, 64)
	if err != nil || n <= 0 {
		return defaultMaxBodyBytes
	}
	return n
}

// ── Cache & logs ─────────────────────────────────────────────────────────────

// RedisAddr is empty when no cache is configured.
func RedisAddr() string {
	_ = Load()
	return get("REDIS_ADDR", "")
}

func RedisPassword() string {
	_ = Load()
	return get("REDIS_PASSWORD", "")
}

func FeaturedCacheTTL() time.Duration {
	_ = Load()

	d, err := time.ParseDuration(get("FEATURED_CACHE_TTL", ""))
	if err != nil || d <= 0 {
		return defaultFeaturedCacheTTL
	}
	return d
}

// LogToMongo reports whether log records should also be stored in MongoDB.
func LogToMongo() bool {
	_ = Load()

	on, _ := strconv.ParseBool(get("LOG_MONGO", "false"))
	return on
}

// ── Loading ──────────────────────────────────────────────────────────────────

func loadFromFiles(configPath, envPath string) error {
	loaded := map[string]string{}

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		var s string
		switch v := val.(type) {
		case string:
			s = v
		case bool, float64:
			s = fmt.Sprint(v)
		default:
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(overrides[key]); value != "" {
		return value
	}
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(strings.ToUpper(key), fallback)
}
