package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFiles(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()

	require.NoError(t, load(filepath.Join(dir, ".env"), dir))
	assert.Equal(t, "8080", viper.GetString("server.http.port"))
	assert.Equal(t, "static", viper.GetString("orders.source"))
	assert.Equal(t, "vendor.orders.created", viper.GetString("rabbitmq.queue"))
	assert.Equal(t, 30, viper.GetInt("orders.refresh_interval_seconds"))
}

func TestLoad_ConfigFileOverridesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()

	cfg := "orders:\n  source: postgres\n  refresh_interval_seconds: 5\nlogger:\n  format: text\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(cfg), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ORDERS_PG_TEST_MARKER=loaded\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("ORDERS_PG_TEST_MARKER") })

	require.NoError(t, load(filepath.Join(dir, ".env"), dir))
	assert.Equal(t, "postgres", viper.GetString("orders.source"))
	assert.Equal(t, 5, viper.GetInt("orders.refresh_interval_seconds"))
	assert.Equal(t, "text", viper.GetString("logger.format"))
	assert.Equal(t, "9090", viper.GetString("server.grpc.port"))
	assert.Equal(t, "loaded", os.Getenv("ORDERS_PG_TEST_MARKER"))
}

func TestLoad_MalformedConfig(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("orders: [unclosed"), 0o600))
	assert.Error(t, load(filepath.Join(dir, ".env"), dir))
}
