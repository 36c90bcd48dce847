package config

// HTTPConfig configures the read-only admin API; disabled when Addr is empty.
type HTTPConfig struct {
	Addr string
}

func NewHTTPConfig() *HTTPConfig {
	return &HTTPConfig{
		Addr: getEnv("ADMIN_HTTP_ADDR", ""),
	}
}
