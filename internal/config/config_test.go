// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := writeConfig(t, `{
			"authority": "11111111111111111111111111111112",
			"asset_rate": 10,
			"creator_sell_delay": 3600,
			"graduate_threshold": 1000000000,
			"buy_fee_bps": 6000,
			"sell_fee_bps": 7000,
			"webhook_url": "https://example.com/hook",
			"event_buffer": 50,
			"debug_logging": true
		}`)

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "11111111111111111111111111111112", cfg.Authority)
		assert.Equal(t, uint64(10), cfg.AssetRate)
		assert.Equal(t, int64(3600), cfg.CreatorSellDelay)
		assert.Equal(t, uint64(1_000_000_000), cfg.GraduateThreshold)
		assert.Equal(t, uint32(6_000), cfg.BuyFeeBps)
		assert.Equal(t, uint32(7_000), cfg.SellFeeBps)
		assert.Equal(t, 50, cfg.EventBuffer)
		assert.True(t, cfg.DebugLogging)
	})

	t.Run("defaults applied", func(t *testing.T) {
		path := writeConfig(t, `{
			"authority": "11111111111111111111111111111112",
			"creator_sell_delay": 3600,
			"graduate_threshold": 1000000000
		}`)

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, uint64(DefaultAssetRate), cfg.AssetRate)
		assert.Equal(t, uint32(DefaultBuyFeeBps), cfg.BuyFeeBps)
		assert.Equal(t, uint32(DefaultSellFeeBps), cfg.SellFeeBps)
		assert.Equal(t, DefaultEventBuffer, cfg.EventBuffer)
		assert.Equal(t, DefaultLogFile, cfg.LogFile)
	})

	t.Run("missing authority rejected", func(t *testing.T) {
		path := writeConfig(t, `{
			"creator_sell_delay": 3600,
			"graduate_threshold": 1000000000
		}`)
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "authority")
	})

	t.Run("plain http webhook rejected", func(t *testing.T) {
		path := writeConfig(t, `{
			"authority": "11111111111111111111111111111112",
			"creator_sell_delay": 3600,
			"graduate_threshold": 1000000000,
			"webhook_url": "http://example.com/hook"
		}`)
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "HTTPS")
	})

	t.Run("zero threshold rejected", func(t *testing.T) {
		path := writeConfig(t, `{
			"authority": "11111111111111111111111111111112",
			"creator_sell_delay": 3600
		}`)
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "graduate_threshold")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})
}
