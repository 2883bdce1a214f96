package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/dojo/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Database.Host = "localhost"
	cfg.Database.Port = "5432"
	cfg.Database.User = "postgres"
	cfg.Database.Password = "postgres"
	cfg.Database.DBName = "dojo"
	cfg.Database.SSLMode = "disable"
	cfg.Database.MaxOpenConns = 20
	cfg.Database.MaxIdleConns = 5
	cfg.Database.ConnMaxLifetime = "1h"
	return cfg
}

func TestPoolConfig(t *testing.T) {
	poolConfig, err := PoolConfig(testConfig())
	require.NoError(t, err)

	assert.Equal(t, int32(20), poolConfig.MaxConns)
	assert.Equal(t, int32(5), poolConfig.MinConns)
	assert.Equal(t, time.Hour, poolConfig.MaxConnLifetime)
	assert.Equal(t, "dojo", poolConfig.ConnConfig.Database)
}

func TestPoolConfig_IdleAboveMaxIsIgnored(t *testing.T) {
	cfg := testConfig()
	cfg.Database.MaxIdleConns = 50

	poolConfig, err := PoolConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, int32(0), poolConfig.MinConns)
}

func TestPoolConfig_BadLifetime(t *testing.T) {
	cfg := testConfig()
	cfg.Database.ConnMaxLifetime = "forever"

	_, err := PoolConfig(cfg)
	assert.ErrorContains(t, err, "conn_max_lifetime")
}
