package config

import (
	"os"
	"strconv"
	"strings"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Port         string
	Environment  string
	ReadTimeout  int
	WriteTimeout int

	DBPath            string
	MigrationsPath    string
	StyleDefaultsPath string
	OpenAPIPath       string
	WorkingCRS        string
	AllowOrigins      []string
	PreviewWidth      int
	PreviewHeight     int
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	return &Config{
		Port:         getEnv("PORT", "3000"),
		Environment:  getEnv("ENV", "development"),
		ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
		WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),

		DBPath:            getEnv("DRAW_DB_PATH", "data/db/draw.db"),
		MigrationsPath:    getEnv("DRAW_MIGRATIONS", "migrations/001_init_draw.sql"),
		StyleDefaultsPath: getEnv("DRAW_STYLE_DEFAULTS", "configs/style.ini"),
		OpenAPIPath:       getEnv("DRAW_OPENAPI", "docs/draw.openapi.yaml"),
		WorkingCRS:        getEnv("DRAW_WORKING_CRS", "EPSG:25832"),
		AllowOrigins:      getEnvAsList("DRAW_ALLOW_ORIGINS", []string{"*"}),
		PreviewWidth:      getEnvAsInt("DRAW_PREVIEW_WIDTH", 512),
		PreviewHeight:     getEnvAsInt("DRAW_PREVIEW_HEIGHT", 512),
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

// getEnvAsList читает список через запятую, пустые элементы пропускаются.
func getEnvAsList(key string, defaultVal []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
