package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/pasto-verde/internal/config"
)

type testStruct struct {
	Latitude  float64
	Longitude float64
	Address   string
}

func setupTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() { mr.Close() })

	cfg := config.RedisConnection{
		AddressRedis: mr.Addr(),
		Password:     "",
		DB:           0,
		User:         "",
	}

	cache, err := InitServer(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache, mr
}

func TestSetAndGet(t *testing.T) {
	cache, _ := setupTestCache(t)

	expected := testStruct{Latitude: 14.0818, Longitude: -87.2068, Address: "Colonia Palmira, Tegucigalpa"}
	err := cache.Set("geocode:palmira", expected, time.Minute)
	require.NoError(t, err)

	var actual testStruct
	found, err := cache.Get("geocode:palmira", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestGetNotFound(t *testing.T) {
	cache, _ := setupTestCache(t)

	var out testStruct
	found, err := cache.Get("no_such_key", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInvalidate(t *testing.T) {
	cache, _ := setupTestCache(t)

	err := cache.Set("admin:overview", "value", time.Minute)
	require.NoError(t, err)

	err = cache.Invalidate("admin:overview")
	require.NoError(t, err)

	var out string
	found, err := cache.Get("admin:overview", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetInvalidJSON(t *testing.T) {
	cache, _ := setupTestCache(t)

	err := cache.Db.Set(context.Background(), "bad", []byte("not-json"), time.Minute).Err()
	require.NoError(t, err)

	var out testStruct
	found, err := cache.Get("bad", &out)
	assert.False(t, found)
	assert.Error(t, err)
}

func TestInitServerInvalidAddr(t *testing.T) {
	cfg := config.RedisConnection{
		AddressRedis: "127.0.0.1:9999",
		DialTimeout:  200 * time.Millisecond,
	}

	cache, err := InitServer(context.Background(), cfg)
	assert.Nil(t, cache)
	assert.Error(t, err)
}

func TestSetExpires(t *testing.T) {
	cache, mr := setupTestCache(t)

	err := cache.Set("session:abc", map[string]string{"user_id": "u1"}, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("session:abc"))

	mr.FastForward(2 * time.Minute)

	var out map[string]string
	found, err := cache.Get("session:abc", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPing(t *testing.T) {
	cache, _ := setupTestCache(t)
	require.NoError(t, cache.Ping(context.Background()))

	require.NoError(t, cache.Close())
	assert.Error(t, cache.Ping(context.Background()))
}
