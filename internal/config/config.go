// Package config предоставляет структуры и функцию для парсинга и загрузки конфига
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"APP_ENV" env-default:"dev"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"DATABASE_URL"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	AMQPConnection          string `yaml:"amqp_connection" env:"AMQP_URL"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	Sessions                `yaml:"sessions"`
	LoginThrottle           `yaml:"login_throttle"`
	Verification            `yaml:"verification"`
	PasswordHashing         `yaml:"password_hashing"`
	AdminBootstrap          `yaml:"admin_bootstrap"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8082"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDR"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
}

// Sessions параметры выдачи сессионных токенов
type Sessions struct {
	TokenTTL time.Duration `yaml:"token_ttl" env-default:"168h"`
	CacheTTL time.Duration `yaml:"cache_ttl" env-default:"60s"`
}

// LoginThrottle параметры окна неудачных входов и блокировки
type LoginThrottle struct {
	Window   time.Duration `yaml:"window" env-default:"1h"`
	MaxFails int           `yaml:"max_fails" env-default:"5"`
}

// Verification параметры одноразового кода подтверждения почты
type Verification struct {
	CodeTTL time.Duration `yaml:"code_ttl" env-default:"15m"`
}

// PasswordHashing параметры хеширования паролей
type PasswordHashing struct {
	Iterations int `yaml:"iterations" env-default:"200000"`
}

// AdminBootstrap параметры создания стартового администратора.
// В dev-окружении при пустых значениях подставляются admin/Admin1234
// с обязательной сменой пароля при первом входе.
type AdminBootstrap struct {
	Username string `yaml:"username" env:"ADMIN_BOOTSTRAP_USERNAME"`
	Password string `yaml:"password" env:"ADMIN_BOOTSTRAP_PASSWORD"`
	Email    string `yaml:"email" env:"ADMIN_BOOTSTRAP_EMAIL"`
}

// MustLoad функция для загрузки конфига, путь берется из CONFIG_PATH
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	if cfg.Env == "dev" {
		if cfg.AdminBootstrap.Username == "" {
			cfg.AdminBootstrap.Username = "admin"
		}
		if cfg.AdminBootstrap.Password == "" {
			cfg.AdminBootstrap.Password = "Admin1234"
		}
	}
	return &cfg
}
