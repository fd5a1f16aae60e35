// Файл: config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL time.Duration
}

type ServerConfig struct {
	Port string
}

type RedisConfig struct {
	Address  string
	Password string
}

// ERPConfig - параметры подключения к API согласования закупок (ERP).
type ERPConfig struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration
}

type OrdersConfig struct {
	// DefaultTenant используется, когда клиент не прислал x-tenant-id.
	DefaultTenant string
	// DefaultWindowDays - ширина окна дат по умолчанию (дашборд открывается
	// на последних двух неделях).
	DefaultWindowDays int
	// CacheTTL - время жизни закэшированного списка заказов.
	CacheTTL time.Duration
	// KanbanColumnPageSize - фиксированный размер страницы колонки канбана.
	KanbanColumnPageSize int
}

type Config struct {
	Server ServerConfig
	Redis  RedisConfig
	JWT    JWTConfig
	ERP    ERPConfig
	Orders OrdersConfig
}

func New() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Предупреждение: .env файл не найден или не удалось его загрузить.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
		},
		Redis: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET_KEY", "9A4D2AD385B2BAA8DC78F558B548F"),
			AccessTokenTTL: time.Hour * 24,
		},
		ERP: ERPConfig{
			BaseURL:  getEnv("ERP_BASE_URL", "http://localhost:9090"),
			Username: getEnv("ERP_USERNAME", ""),
			Password: getEnv("ERP_PASSWORD", ""),
			Timeout:  time.Second * 20,
		},
		Orders: OrdersConfig{
			DefaultTenant:        getEnv("DEFAULT_TENANT_ID", "01,01"),
			DefaultWindowDays:    getEnvInt("ORDERS_DEFAULT_WINDOW_DAYS", 15),
			CacheTTL:             time.Minute * 5,
			KanbanColumnPageSize: 3,
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
