package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr          string        `envconfig:"ADDR" default:":8080"`
	ShutdownGrace time.Duration `envconfig:"SHUTDOWN_GRACE" default:"5s"`

	ReadBufferSize  int `envconfig:"WS_READ_BUFFER" default:"1024"`
	WriteBufferSize int `envconfig:"WS_WRITE_BUFFER" default:"1024"`
	// SendQueueSize bounds the per-connection outbound buffer; a reader
	// that falls further behind starts losing events.
	SendQueueSize int `envconfig:"WS_SEND_QUEUE" default:"32"`
	// AllowAllOrigins disables the upgrader origin check. Dev only.
	AllowAllOrigins bool `envconfig:"WS_ALLOW_ALL_ORIGINS" default:"true"`
}

func Load() (Config, error) {
	_ = godotenv.Load()
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
