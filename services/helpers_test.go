package services

import (
	"path/filepath"
	"testing"
	"time"

	"exoplanet-prediction-api/config"
	"exoplanet-prediction-api/database"
	"exoplanet-prediction-api/inference"
	"exoplanet-prediction-api/inference/inferencetest"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db     *gorm.DB
	cache  *CacheService
	users  *UserService
	kepler *KeplerService
	tess   *TessService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		URL: "sqlite:///" + filepath.Join(t.TempDir(), "exo.db"),
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func newTestEnvWithModels(t *testing.T, modelDir string) *testEnv {
	t.Helper()
	cache, err := NewCacheService(config.RedisConfig{}, zap.NewNop())
	if err != nil {
		t.Fatalf("cache: %v", err)
	}
	return newTestEnvWithCache(t, modelDir, cache)
}

func newTestEnvWithCache(t *testing.T, modelDir string, cache *CacheService) *testEnv {
	t.Helper()
	db := newTestDB(t)
	log := zap.NewNop()

	users := NewUserService(db, newTestAuthService(t), cache, log)
	loc := inference.NewLocatorWithDirs(modelDir)
	return &testEnv{
		db:     db,
		cache:  cache,
		users:  users,
		kepler: NewKeplerService(db, inference.NewLazy(inference.KeplerArtifact, loc, nil), users, cache, log),
		tess:   NewTessService(db, inference.NewLazy(inference.TessArtifact, loc, nil), users, cache, log),
	}
}

// newTestEnv's Kepler model predicts 1 once 0.1*koi_model_snr - 4*koi_fpflag_nt
// exceeds 5.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithModels(t, inferencetest.ModelDir(t, -5))
}

// newRedisCache returns a cache backed by an in-process redis server.
func newRedisCache(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCacheServiceWithClient(client, time.Minute, zap.NewNop()), mr
}

// newRedisTestEnv is newTestEnv with redis enabled.
func newRedisTestEnv(t *testing.T) (*testEnv, *miniredis.Miniredis) {
	t.Helper()
	cache, mr := newRedisCache(t)
	return newTestEnvWithCache(t, inferencetest.ModelDir(t, -5), cache), mr
}
