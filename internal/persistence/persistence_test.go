package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/store-admin/internal/config"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600))
	}
}

func TestLoadMigrationsOrdersByVersion(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "0010_gift_codes.sql", "0002_catalog.sql", "0001_init.sql", "README.md")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "0003_archive.sql"), 0o700))

	got, err := LoadMigrations(dir)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []int{1, 2, 10}, []int{got[0].Version, got[1].Version, got[2].Version})
	assert.Equal(t, "gift_codes", got[2].Name)
	assert.Equal(t, filepath.Join(dir, "0010_gift_codes.sql"), got[2].Path)
}

func TestLoadMigrationsRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "init.sql")
	_, err := LoadMigrations(dir)
	assert.ErrorContains(t, err, "init.sql")

	dir = t.TempDir()
	writeFiles(t, dir, "0001_init.sql", "001_again.sql")
	_, err = LoadMigrations(dir)
	assert.ErrorContains(t, err, "version 1")

	_, err = LoadMigrations(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestPendingMigrationsSkipsApplied(t *testing.T) {
	all := []Migration{{Version: 1, Name: "init"}, {Version: 2, Name: "catalog"}, {Version: 3, Name: "gift_codes"}}

	todo := pendingMigrations(all, map[int]bool{1: true, 3: true})
	require.Len(t, todo, 1)
	assert.Equal(t, "catalog", todo[0].Name)

	assert.Empty(t, pendingMigrations(all, map[int]bool{1: true, 2: true, 3: true}))
	assert.Len(t, pendingMigrations(all, nil), 3)
}

func TestRunMigrationsWithoutDatabase(t *testing.T) {
	assert.NoError(t, RunMigrations(context.Background(), nil, "does-not-matter", zap.NewNop()))
}

func TestPoolConfigAppliesLimitsAndSessionParams(t *testing.T) {
	pc, err := poolConfig(config.PostgresConfig{
		DSN:            "postgres://store:secret@db:5432/store_admin",
		MaxConns:       20,
		MinConns:       4,
		ConnMaxIdleSec: 30,
		ConnMaxLifeSec: 600,
	})
	require.NoError(t, err)
	assert.Equal(t, int32(20), pc.MaxConns)
	assert.Equal(t, int32(4), pc.MinConns)
	assert.Equal(t, 30*time.Second, pc.MaxConnIdleTime)
	assert.Equal(t, 10*time.Minute, pc.MaxConnLifetime)
	assert.Equal(t, "store-admin", pc.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "UTC", pc.ConnConfig.RuntimeParams["timezone"])

	pc, err = poolConfig(config.PostgresConfig{DSN: "postgres://db/store_admin?application_name=reports", MaxConns: 2, MinConns: 5})
	require.NoError(t, err)
	assert.Equal(t, "reports", pc.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, int32(0), pc.MinConns)

	_, err = poolConfig(config.PostgresConfig{DSN: "postgres://db:notaport/x"})
	assert.Error(t, err)
}

func TestPostgresWithoutDSNIsDegraded(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, pg.PoolHandle())
	assert.ErrorIs(t, pg.Ping(context.Background()), ErrNoDatabase)
	pg.Close()
}

func TestRedisOptions(t *testing.T) {
	opts, err := redisOptions(config.RedisConfig{Addr: "cache:6379", Password: "pw", DB: 2})
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "store-admin", opts.ClientName)
	assert.True(t, opts.ContextTimeoutEnabled)

	opts, err = redisOptions(config.RedisConfig{Addr: "redis://:urlpw@cache:6380/3", Password: "envpw", DB: 1})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "urlpw", opts.Password)
	assert.Equal(t, 3, opts.DB)

	_, err = redisOptions(config.RedisConfig{Addr: "redis://cache:6379/not-a-db"})
	assert.Error(t, err)

	var missing *Redis
	assert.ErrorIs(t, missing.Ping(context.Background()), ErrNoRedis)
}
