package config

// PostgresConfig selects the PostgreSQL transfer log. An empty Url keeps the
// log in memory.
type PostgresConfig struct {
	Url    string
	Schema string
}

func NewPostgresConfig() *PostgresConfig {
	return &PostgresConfig{
		Url:    getEnv("DATABASE_URL", ""),
		Schema: getEnv("DB_SCHEMA", "public"),
	}
}
