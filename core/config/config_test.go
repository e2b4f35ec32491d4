package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/twofactor/core/config"
)

type issuerConfig struct {
	Issuer string `env:"CONFIG_TEST_ISSUER" envDefault:"Foundation"`
	Codes  int    `env:"CONFIG_TEST_CODES" envDefault:"8"`
}

type requiredConfig struct {
	Key string `env:"CONFIG_TEST_REQUIRED_KEY,required"`
}

type durationConfig struct {
	Timeout time.Duration `env:"CONFIG_TEST_TIMEOUT" envDefault:"5s"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		config.Reset()

		var cfg issuerConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "Foundation", cfg.Issuer)
		assert.Equal(t, 8, cfg.Codes)
	})

	t.Run("reads environment", func(t *testing.T) {
		config.Reset()
		t.Setenv("CONFIG_TEST_ISSUER", "Shop")
		t.Setenv("CONFIG_TEST_CODES", "10")

		var cfg issuerConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "Shop", cfg.Issuer)
		assert.Equal(t, 10, cfg.Codes)
	})

	t.Run("caches per type", func(t *testing.T) {
		config.Reset()
		t.Setenv("CONFIG_TEST_TIMEOUT", "2s")

		var first durationConfig
		require.NoError(t, config.Load(&first))

		t.Setenv("CONFIG_TEST_TIMEOUT", "9s")

		var second durationConfig
		require.NoError(t, config.Load(&second))
		assert.Equal(t, 2*time.Second, second.Timeout)
	})

	t.Run("missing required variable", func(t *testing.T) {
		config.Reset()

		var cfg requiredConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CONFIG_TEST_REQUIRED_KEY")
	})

	t.Run("nil destination", func(t *testing.T) {
		var cfg *issuerConfig
		assert.Error(t, config.Load(cfg))
	})
}

func TestMustLoad(t *testing.T) {
	config.Reset()

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})

	assert.NotPanics(t, func() {
		var cfg issuerConfig
		config.MustLoad(&cfg)
	})
}
