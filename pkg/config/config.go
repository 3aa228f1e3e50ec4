package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la consola (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Backend BackendConfig
	State   StateConfig
	Redis   RedisConfig
	DB      DBConfig
	JWT     JWTConfig
	Console ConsoleConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	SwaggerFile string // vacío o inexistente = sin Swagger UI
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackendConfig API REST del backend de reservas.
type BackendConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int
}

// Drivers del almacén de estado.
const (
	StateDriverRedis    = "redis"
	StateDriverPostgres = "postgres"
	StateDriverMemory   = "memory"
)

// StateConfig almacén durable del estado de la consola.
type StateConfig struct {
	Driver string
}

// RedisConfig conexión a Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// JWTConfig validación del token de sesión emitido por el backend.
type JWTConfig struct {
	Secret string
	Issuer string
}

// ConsoleConfig parámetros de comportamiento de la consola.
type ConsoleConfig struct {
	UndoWindow     time.Duration
	SearchDebounce time.Duration
	PublicRoutes   []string
	UpgradeURL     string
	SessionIdle    time.Duration
	SweepSchedule  string // expresión cron del barrido de sesiones inactivas
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, BACKEND_BASE_URL, STATE_DRIVER, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "clinic-console"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			SwaggerFile: getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
		Backend: BackendConfig{
			BaseURL:    getString(v, "BACKEND_BASE_URL", "http://localhost:8000"),
			Timeout:    time.Duration(getInt(v, "BACKEND_TIMEOUT_SECONDS", 15)) * time.Second,
			RetryCount: getInt(v, "BACKEND_RETRY_COUNT", 2),
		},
		State: StateConfig{
			Driver: strings.ToLower(getString(v, "STATE_DRIVER", StateDriverRedis)),
		},
		Redis: RedisConfig{
			Addr:     getString(v, "REDIS_ADDR", "localhost:6379"),
			Password: getString(v, "REDIS_PASSWORD", ""),
			DB:       getInt(v, "REDIS_DB", 0),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "clinic_console"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: getString(v, "JWT_SECRET", ""),
			Issuer: getString(v, "JWT_ISSUER", ""),
		},
		Console: ConsoleConfig{
			UndoWindow:     time.Duration(getInt(v, "UNDO_WINDOW_SECONDS", 5)) * time.Second,
			SearchDebounce: time.Duration(getInt(v, "SEARCH_DEBOUNCE_MS", 300)) * time.Millisecond,
			PublicRoutes:   splitList(getString(v, "PUBLIC_ROUTES", "/login,/register,/forgot-password,/book")),
			UpgradeURL:     getString(v, "UPGRADE_URL", "/settings/subscription"),
			SessionIdle:    time.Duration(getInt(v, "SESSION_IDLE_MINUTES", 60)) * time.Minute,
			SweepSchedule:  getString(v, "SESSION_SWEEP_SCHEDULE", "@every 5m"),
		},
	}

	switch cfg.State.Driver {
	case StateDriverRedis, StateDriverPostgres, StateDriverMemory:
	default:
		return nil, fmt.Errorf("config: STATE_DRIVER desconocido %q", cfg.State.Driver)
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET es obligatorio")
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
