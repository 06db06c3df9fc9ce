package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
  apiKey: from-file
faq:
  similarityMetric: levenshtein
  seed:
    - question: Hola
      answer: Buenas
storage:
  driver: sqlite
  sqlite:
    path: /tmp/faq.db
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("API_KEY", "from-env")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, "from-env", cfg.HTTP.APIKey)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	require.Equal(t, "levenshtein", cfg.FAQ.SimilarityMetric)
	require.Len(t, cfg.FAQ.Seed, 1)
	require.Equal(t, DriverSQLite, cfg.Storage.Driver)
	require.Equal(t, "/tmp/faq.db", cfg.Storage.SQLite.Path)
	require.Equal(t, []string{"/process_message"}, cfg.HTTP.Retry.Include)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.HTTP.APIKey = "secret"
		return cfg
	}
	require.NoError(t, valid().Validate())

	cases := map[string]func(*Config){
		"missing api key":   func(c *Config) { c.HTTP.APIKey = " " },
		"unknown metric":    func(c *Config) { c.FAQ.SimilarityMetric = "cosine" },
		"unknown driver":    func(c *Config) { c.Storage.Driver = "mongo" },
		"postgres no dsn":   func(c *Config) { c.Storage.Driver = DriverPostgres },
		"valkey no addr":    func(c *Config) { c.Cache.Valkey.Enabled = true },
		"bad rate limit":    func(c *Config) { c.HTTP.RateLimit.Burst = 0 },
		"empty clarify":     func(c *Config) { c.FAQ.ClarificationText = "" },
		"negative trending": func(c *Config) { c.FAQ.TopRecommendations = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestDefaultSeedIsUsable(t *testing.T) {
	cfg := defaultConfig()
	require.True(t, cfg.FAQ.SeedOnStart)
	require.NotEmpty(t, cfg.FAQ.Seed)
	for _, p := range cfg.FAQ.Seed {
		require.NotEmpty(t, p.Question)
		require.NotEmpty(t, p.Answer)
	}
}
