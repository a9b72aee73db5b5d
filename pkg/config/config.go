package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	OAuth      OAuthConfig
	JWT        JWTConfig
	Storage    StorageConfig
	Voice      VoiceConfig
	AssemblyAI AssemblyAIConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	AllowedOrigins  []string
	ShutdownTimeout int
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver     string
	SQLitePath string
	Host       string
	Port       string
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxConns   int
	MinConns   int
}

// RedisConfig holds Redis configuration. An empty address selects the
// in-memory challenge store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis backend is configured
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// OAuthConfig holds OAuth configuration
type OAuthConfig struct {
	Google GoogleOAuthConfig
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether Google sign-in is configured
func (g GoogleOAuthConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// StorageConfig holds MinIO configuration. An empty endpoint disables clip
// archiving.
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// Enabled reports whether object storage is configured
func (s StorageConfig) Enabled() bool {
	return s.Endpoint != ""
}

// VoiceConfig holds the voice pipeline configuration
type VoiceConfig struct {
	ProfilesDir       string
	UploadDir         string
	ModelPath         string
	ModelURL          string
	ModelCacheDir     string
	PretrainedDir     string
	PrimaryThreshold  float64
	FallbackThreshold float64
	EnrollMinSeconds  float64
	VerifyMinSeconds  float64
	TempMaxAge        time.Duration
	SweepInterval     time.Duration
	FFmpegBin         string
	FFprobeBin        string
}

// AssemblyAIConfig holds speech-to-text configuration
type AssemblyAIConfig struct {
	APIKey    string
	WordCheck bool
}

// Enabled reports whether the spoken-word check should run
func (a AssemblyAIConfig) Enabled() bool {
	return a.APIKey != "" && a.WordCheck
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	config := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8000"),
			Host:            getEnv("HOST", "0.0.0.0"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			AllowedOrigins:  []string{getEnv("ALLOWED_ORIGINS", "http://localhost:3000")},
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", DriverSQLite),
			SQLitePath: getEnv("SQLITE_PATH", "voice_attendance.db"),
			Host:       getEnv("DB_HOST", "localhost"),
			Port:       getEnv("DB_PORT", "5432"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", "postgres"),
			Name:       getEnv("DB_NAME", "voice_attendance"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			MaxConns:   getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:   getEnvAsInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		OAuth: OAuthConfig{
			Google: GoogleOAuthConfig{
				ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
				ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
				RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8000/api/v1/auth/google/callback"),
			},
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", "30m"),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", "168h"),
		},
		Storage: StorageConfig{
			Endpoint:        getEnv("MINIO_ENDPOINT", ""),
			AccessKeyID:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			BucketName:      getEnv("MINIO_BUCKET", "voice-attendance"),
			UseSSL:          getEnvAsBool("MINIO_USE_SSL", false),
		},
		Voice: VoiceConfig{
			ProfilesDir:       getEnv("VOICE_PROFILES_DIR", "./profiles"),
			UploadDir:         getEnv("VOICE_UPLOAD_DIR", "./uploads/audio"),
			ModelPath:         getEnv("VOICE_MODEL_PATH", ""),
			ModelURL:          getEnv("VOICE_MODEL_URL", ""),
			ModelCacheDir:     getEnv("VOICE_MODEL_CACHE_DIR", ""),
			PretrainedDir:     getEnv("VOICE_PRETRAINED_DIR", "./pretrained_models/speaker_recognition"),
			PrimaryThreshold:  getEnvAsFloat("VOICE_PRIMARY_THRESHOLD", 0.60),
			FallbackThreshold: getEnvAsFloat("VOICE_FALLBACK_THRESHOLD", 0.40),
			EnrollMinSeconds:  getEnvAsFloat("VOICE_ENROLL_MIN_SECONDS", 3.0),
			VerifyMinSeconds:  getEnvAsFloat("VOICE_VERIFY_MIN_SECONDS", 2.0),
			TempMaxAge:        getEnvAsDuration("VOICE_TEMP_MAX_AGE", "24h"),
			SweepInterval:     getEnvAsDuration("VOICE_SWEEP_INTERVAL", "1h"),
			FFmpegBin:         getEnv("FFMPEG_BIN", "ffmpeg"),
			FFprobeBin:        getEnv("FFPROBE_BIN", "ffprobe"),
		},
		AssemblyAI: AssemblyAIConfig{
			APIKey:    getEnv("ASSEMBLYAI_API_KEY", ""),
			WordCheck: getEnvAsBool("ASR_WORD_CHECK", true),
		},
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Driver != DriverSQLite && c.Database.Driver != DriverPostgres {
		return fmt.Errorf("DB_DRIVER must be %q or %q", DriverSQLite, DriverPostgres)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Server.Environment == "production" && c.JWT.Secret == "your-secret-key-change-in-production" {
		return fmt.Errorf("JWT_SECRET must be changed in production")
	}
	if c.Voice.PrimaryThreshold <= 0 || c.Voice.PrimaryThreshold > 1 {
		return fmt.Errorf("VOICE_PRIMARY_THRESHOLD must be in (0, 1]")
	}
	if c.Voice.FallbackThreshold <= 0 || c.Voice.FallbackThreshold > 1 {
		return fmt.Errorf("VOICE_FALLBACK_THRESHOLD must be in (0, 1]")
	}
	if c.Voice.ProfilesDir == "" {
		return fmt.Errorf("VOICE_PROFILES_DIR is required")
	}
	return nil
}

// GetDatabaseDSN returns the PostgreSQL connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}
	return duration
}
