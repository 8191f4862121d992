package redis_test

import (
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/robalyx/dolmetscher/internal/redis"
	"github.com/robalyx/dolmetscher/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestManagerGetClient(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	manager := redis.NewManager(&config.Redis{Enabled: true, Host: mr.Host(), Port: port}, zap.NewNop())
	defer manager.Close()
	assert.True(t, manager.Enabled())

	client, err := manager.GetClient(redis.BackTranslateDBIndex)
	require.NoError(t, err)

	again, err := manager.GetClient(redis.BackTranslateDBIndex)
	require.NoError(t, err)
	assert.Same(t, client, again)

	require.NoError(t, client.Do(t.Context(), client.B().Set().Key("k").Value("v").Build()).Error())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}
