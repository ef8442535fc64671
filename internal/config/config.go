package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type OrderConfig struct {
	Env           string `yaml:"env"`
	HTTPServer    `yaml:"http_server"`
	OrderDB       `yaml:"order_db"`
	KafkaService  `yaml:"kafka-service"`
	BotGateway    `yaml:"bot-gateway"`
	Locks         `yaml:"locks"`
	Verification  `yaml:"verification"`
	Notifications `yaml:"notifications"`
	Orders        `yaml:"orders"`
}

type HTTPServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type OrderDB struct {
	Dsn           string `yaml:"dsn"`
	MigrationPath string `yaml:"migration_path"`
}

type KafkaService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type BotGateway struct {
	Address string `yaml:"address"`
}

type Locks struct {
	Backend    string        `yaml:"backend" env-default:"memory"`
	RedisAddr  string        `yaml:"redis_addr"`
	LockExpiry time.Duration `yaml:"lock_expiry" env-default:"30s"`
}

type Verification struct {
	AutoVerifyThreshold float64       `yaml:"auto_verify_threshold" env-default:"0.85"`
	RecencyWindow       time.Duration `yaml:"recency_window" env-default:"72h"`
	Budget              time.Duration `yaml:"budget" env-default:"10s"`
}

type Notifications struct {
	MaxAttempts    int           `yaml:"max_attempts" env-default:"3"`
	BaseDelay      time.Duration `yaml:"base_delay" env-default:"1s"`
	MaxDelay       time.Duration `yaml:"max_delay" env-default:"10s"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout" env-default:"5s"`
	BulkDelay      time.Duration `yaml:"bulk_delay" env-default:"100ms"`
	BulkWorkers    int           `yaml:"bulk_workers" env-default:"4"`
}

type Orders struct {
	PendingTTL time.Duration `yaml:"pending_ttl" env-default:"24h"`
}

func MustLoad() *OrderConfig {
	configPath := os.Getenv("ORDER_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("ORDER_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	var cfg OrderConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
