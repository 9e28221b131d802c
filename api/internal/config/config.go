package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	GoogleAPIKey  string
	GeminiModel   string

	UploadDir      string
	StaticDir      string
	MaxFiles       int
	MaxUploadBytes int64
	ImageMaxWidth  int
	ImageQuality   int
	RequestTimeout time.Duration

	ValidationOnError     string
	IdentificationOnError string

	CORSOrigins      []string
	DatabaseURL      string
	TelegramBotToken string
	LogLevel         string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("OPENAI_MODEL", "gpt-4o")
	v.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("STATIC_DIR", "web")
	v.SetDefault("MAX_FILES", 5)
	v.SetDefault("MAX_UPLOAD_BYTES", 20<<20)
	v.SetDefault("IMAGE_MAX_WIDTH", 800)
	v.SetDefault("IMAGE_QUALITY", 80)
	v.SetDefault("REQUEST_TIMEOUT", "180s")
	v.SetDefault("VALIDATION_ON_ERROR", "fail-safe")
	v.SetDefault("IDENTIFICATION_ON_ERROR", "fail-loud")
	v.SetDefault("CORS_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port: v.GetString("PORT"),

		OpenAIAPIKey:  strings.TrimSpace(v.GetString("OPENAI_API_KEY")),
		OpenAIModel:   v.GetString("OPENAI_MODEL"),
		OpenAIBaseURL: v.GetString("OPENAI_BASE_URL"),
		GoogleAPIKey:  strings.TrimSpace(v.GetString("GOOGLE_API_KEY")),
		GeminiModel:   v.GetString("GEMINI_MODEL"),

		UploadDir:      v.GetString("UPLOAD_DIR"),
		StaticDir:      v.GetString("STATIC_DIR"),
		MaxFiles:       v.GetInt("MAX_FILES"),
		MaxUploadBytes: v.GetInt64("MAX_UPLOAD_BYTES"),
		ImageMaxWidth:  v.GetInt("IMAGE_MAX_WIDTH"),
		ImageQuality:   v.GetInt("IMAGE_QUALITY"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),

		ValidationOnError:     v.GetString("VALIDATION_ON_ERROR"),
		IdentificationOnError: v.GetString("IDENTIFICATION_ON_ERROR"),

		CORSOrigins:      splitList(v.GetString("CORS_ORIGINS")),
		DatabaseURL:      strings.TrimSpace(v.GetString("DATABASE_URL")),
		TelegramBotToken: strings.TrimSpace(v.GetString("TELEGRAM_BOT_TOKEN")),
		LogLevel:         v.GetString("LOG_LEVEL"),
	}
	if strings.TrimSpace(cfg.Port) == "" {
		cfg.Port = "3000"
	}
	if cfg.MaxFiles <= 0 || cfg.MaxFiles > 5 {
		cfg.MaxFiles = 5
	}
	return cfg, nil
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
