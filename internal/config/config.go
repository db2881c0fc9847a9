package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション設定を表す
type Config struct {
	Server      ServerConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	Reservation ReservationConfig
}

// ServerConfig はサーバー設定
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// MongoConfig はMongoDB設定
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// RedisConfig はRedis設定
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// ReservationConfig は座席仮押さえの設定
type ReservationConfig struct {
	// HoldTimeout は仮押さえの有効期間
	HoldTimeout time.Duration
	// MaxSeatsPerHolder は1ユーザーが同時に保持できる仮押さえ座席数の上限
	MaxSeatsPerHolder int
	// SweepInterval は期限切れ仮押さえの定期回収間隔
	SweepInterval time.Duration
}

// Load は .env と環境変数から設定を読み込む
func Load() *Config {
	// .env はローカル開発用（存在しなくてもよい）
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		Mongo: MongoConfig{
			URI:            getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGO_DB", "eventia"),
			ConnectTimeout: getDurationEnv("MONGO_CONNECT_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		Reservation: ReservationConfig{
			HoldTimeout:       getDurationEnv("RESERVATION_TIMEOUT", 300*time.Second),
			MaxSeatsPerHolder: getIntEnv("MAX_SEATS_PER_USER", 10),
			SweepInterval:     getDurationEnv("RESERVATION_SWEEP_INTERVAL", 30*time.Second),
		},
	}
}

// Addr はRedis接続アドレスを返す
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
