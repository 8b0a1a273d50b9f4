package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env; .env opcional vía godotenv).
type Config struct {
	App       AppConfig
	DB        DBConfig
	JWT       JWTConfig
	HTTP      HTTPConfig
	Import    ImportConfig
	Export    ExportConfig
	Scheduler SchedulerConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo (ej. DATABASE_URL de Supabase).
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
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

// JWTConfig datos para verificar los tokens emitidos por el servicio externo de autenticación.
type JWTConfig struct {
	Secret   string
	Issuer   string // vacío = no se valida
	Audience string // vacío = no se valida
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host        string
	Port        int
	BodyLimitMB int
	SwaggerFile string
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ImportConfig límites de la importación de planillas.
type ImportConfig struct {
	MaxUploadMB int
}

// MaxUploadBytes devuelve el límite en bytes.
func (c ImportConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// ExportConfig prefijos de los archivos exportados (<prefix>_<YYYY-MM-DD>.xlsx).
type ExportConfig struct {
	CompaniesPrefix string
	HonoraryPrefix  string
}

// SchedulerConfig programación del refresco periódico del snapshot de empresas.
// RefreshSpec vacío desactiva el job.
type SchedulerConfig struct {
	RefreshSpec string
}

// Load lee la configuración desde variables de entorno.
// Si existe un .env en el directorio actual se carga antes; las env vars ya definidas tienen prioridad.
// Nombres esperados: APP_ENV, DB_HOST, DB_PORT, JWT_SECRET, etc.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignoramos error si no existe

	v := viper.New()
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "honorarios-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "postgres"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
		},
		JWT: JWTConfig{
			Secret:   getString(v, "JWT_SECRET", ""),
			Issuer:   getString(v, "JWT_ISSUER", ""),
			Audience: getString(v, "JWT_AUDIENCE", "authenticated"),
		},
		HTTP: HTTPConfig{
			Host:        getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:        getInt(v, "HTTP_PORT", 8080),
			BodyLimitMB: getInt(v, "HTTP_BODY_LIMIT_MB", 12),
			SwaggerFile: getString(v, "SWAGGER_FILE", "./docs/swagger.json"),
		},
		Import: ImportConfig{
			MaxUploadMB: getInt(v, "IMPORT_MAX_UPLOAD_MB", 10),
		},
		Export: ExportConfig{
			CompaniesPrefix: getString(v, "EXPORT_COMPANIES_PREFIX", "empresas"),
			HonoraryPrefix:  getString(v, "EXPORT_HONORARY_PREFIX", "honorarios"),
		},
		Scheduler: SchedulerConfig{
			RefreshSpec: getString(v, "SNAPSHOT_REFRESH_SPEC", "@every 5m"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET es requerido")
	}
	if cfg.Import.MaxUploadMB <= 0 {
		return nil, fmt.Errorf("config: IMPORT_MAX_UPLOAD_MB debe ser mayor que cero")
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
	if !v.IsSet(key) {
		return def
	}
	switch v.Get(key).(type) {
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return n
	default:
		return v.GetInt(key)
	}
}
