package config

import (
	"time"

	"gitlab.com/fcv-2025.net/fileget/internal/tcp/defs"
)

type ClientConfig struct {
	DialTimeout time.Duration
	BufferSize  int
	DestDir     string
}

func NewClientConfig() *ClientConfig {
	cfg := &ClientConfig{
		DialTimeout: getSecondsEnv("FILEGET_DIAL_TIMEOUT_SEC", 5*time.Second),
		BufferSize:  getIntEnv("FILEGET_BUFFER_SIZE", defs.DefaultBufferSize),
		DestDir:     getEnv("FILEGET_DEST_DIR", "."),
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = defs.DefaultBufferSize
	}
	return cfg
}
