package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
kafka:
  host: "localhost"
  port: 9092
  booking_checked_topic_name: "booking.checked"
redis:
  host: "localhost"
  port: 6379
voocheck:
  http_addr: ":8080"
  batch_concurrency: 5
  carrier_mode: "live"
  rate_limit_per_minute: 120
  gol_aat_header: "aat"
  azul_subscription_key: "sub"
  latam_wait_seconds: 10
`), 0o600))

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	require.Equal(t, "booking.checked", cfg.Kafka.BookingCheckedTopicName)
	require.Equal(t, 6379, cfg.Redis.Port)
	require.Equal(t, ":8080", cfg.VooCheck.HTTPAddr)
	require.Equal(t, 5, cfg.VooCheck.BatchConcurrency)
	require.Equal(t, "live", cfg.VooCheck.CarrierMode)
	require.Equal(t, "aat", cfg.VooCheck.GolAATHeader)
	require.Equal(t, 10, cfg.VooCheck.LatamWaitSeconds)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
