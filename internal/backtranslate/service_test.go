package backtranslate_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/robalyx/dolmetscher/internal/backtranslate"
	"github.com/robalyx/dolmetscher/internal/redis"
	"github.com/robalyx/dolmetscher/internal/setup/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRelay struct {
	translation string
	err         error
	calls       int
}

func (f *fakeRelay) Translate(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.translation, f.err
}

type fakeModel struct {
	translation string
	err         error
	calls       int
	credential  string
}

func (f *fakeModel) BackTranslate(_ context.Context, credential, _ string) (string, error) {
	f.calls++
	f.credential = credential
	return f.translation, f.err
}

func TestBackTranslate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		creds        backtranslate.Credentials
		relay        *fakeRelay
		model        *fakeModel
		wantText     string
		wantSource   backtranslate.Source
		wantDegraded bool
		wantRelay    int
		wantModel    int
	}{
		{
			name:       "vendor success",
			creds:      backtranslate.Credentials{Primary: "p", Vendor: "v"},
			relay:      &fakeRelay{translation: "你好世界"},
			model:      &fakeModel{translation: "模型"},
			wantText:   "你好世界",
			wantSource: backtranslate.SourceVendor,
			wantRelay:  1,
		},
		{
			name:       "vendor failure falls back to model",
			creds:      backtranslate.Credentials{Primary: "p", Vendor: "v"},
			relay:      &fakeRelay{err: assert.AnError},
			model:      &fakeModel{translation: " 你好世界 "},
			wantText:   "你好世界",
			wantSource: backtranslate.SourceModel,
			wantRelay:  1,
			wantModel:  1,
		},
		{
			name:       "no vendor key uses model",
			creds:      backtranslate.Credentials{Primary: "p"},
			relay:      &fakeRelay{translation: "unused"},
			model:      &fakeModel{translation: "你好"},
			wantText:   "你好",
			wantSource: backtranslate.SourceModel,
			wantModel:  1,
		},
		{
			name:         "model failure degrades",
			creds:        backtranslate.Credentials{Primary: "p"},
			relay:        &fakeRelay{},
			model:        &fakeModel{err: assert.AnError},
			wantText:     backtranslate.UnavailableText,
			wantDegraded: true,
			wantModel:    1,
		},
		{
			name:         "no primary credential",
			creds:        backtranslate.Credentials{Vendor: "v"},
			relay:        &fakeRelay{err: assert.AnError},
			model:        &fakeModel{translation: "unused"},
			wantText:     backtranslate.NotConfiguredText,
			wantDegraded: true,
			wantRelay:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			service := backtranslate.NewService(tt.relay, tt.model, nil, zap.NewNop())

			result := service.BackTranslate(t.Context(), tt.creds, "Hallo Welt")
			assert.Equal(t, tt.wantText, result.Text)
			assert.Equal(t, tt.wantDegraded, result.Degraded)
			assert.Equal(t, !tt.wantDegraded, result.OK())
			if !tt.wantDegraded {
				assert.Equal(t, tt.wantSource, result.Source)
			} else {
				assert.Error(t, result.Reason)
			}
			assert.Equal(t, tt.wantRelay, tt.relay.calls)
			assert.Equal(t, tt.wantModel, tt.model.calls)
		})
	}
}

func TestBackTranslateEmptyText(t *testing.T) {
	t.Parallel()

	model := &fakeModel{translation: "x"}
	service := backtranslate.NewService(nil, model, nil, zap.NewNop())

	result := service.BackTranslate(t.Context(), backtranslate.Credentials{Primary: "p"}, "  ")
	assert.True(t, result.Degraded)
	require.ErrorIs(t, result.Reason, backtranslate.ErrEmptyText)
	assert.Zero(t, model.calls)
}

func TestBackTranslateCache(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	manager := redis.NewManager(&config.Redis{Enabled: true, Host: mr.Host(), Port: port}, zap.NewNop())
	defer manager.Close()

	client, err := manager.GetClient(redis.BackTranslateDBIndex)
	require.NoError(t, err)

	cache := backtranslate.NewRedisCache(client, time.Hour, zap.NewNop())
	model := &fakeModel{translation: "你好世界"}
	service := backtranslate.NewService(nil, model, cache, zap.NewNop())
	creds := backtranslate.Credentials{Primary: "p"}

	first := service.BackTranslate(t.Context(), creds, "Hallo Welt")
	assert.Equal(t, backtranslate.SourceModel, first.Source)

	second := service.BackTranslate(t.Context(), creds, "Hallo Welt")
	assert.Equal(t, backtranslate.SourceCache, second.Source)
	assert.Equal(t, "你好世界", second.Text)
	assert.Equal(t, 1, model.calls)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], "backtranslate:")
	assert.Greater(t, mr.TTL(keys[0]), time.Duration(0))
}

func TestBackTranslateDegradedNotCached(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	manager := redis.NewManager(&config.Redis{Enabled: true, Host: mr.Host(), Port: port}, zap.NewNop())
	defer manager.Close()

	client, err := manager.GetClient(redis.BackTranslateDBIndex)
	require.NoError(t, err)

	cache := backtranslate.NewRedisCache(client, time.Hour, zap.NewNop())
	service := backtranslate.NewService(nil, &fakeModel{err: assert.AnError}, cache, zap.NewNop())

	result := service.BackTranslate(t.Context(), backtranslate.Credentials{Primary: "p"}, "Hallo")
	assert.True(t, result.Degraded)
	assert.Empty(t, mr.Keys())
}
