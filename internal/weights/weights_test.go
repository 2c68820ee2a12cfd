package weights

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/strategy-scheduler/internal/contracts"
	"github.com/wonny/strategy-scheduler/pkg/logger"
	"github.com/wonny/strategy-scheduler/pkg/redis"
)

type fakeRegistry struct {
	strategies []contracts.Strategy
	err        error
}

func (f *fakeRegistry) ListActiveStrategies(ctx context.Context) ([]contracts.Strategy, error) {
	return f.strategies, f.err
}

func (f *fakeRegistry) GetStrategy(ctx context.Context, id contracts.StrategyID) (*contracts.Strategy, error) {
	return nil, errors.New("not used")
}

type countingSource struct {
	calls int
	w     contracts.Weights
}

func (c *countingSource) Weights(ctx context.Context) (contracts.Weights, error) {
	c.calls++
	return c.w, nil
}

func TestRegistrySource(t *testing.T) {
	reg := &fakeRegistry{strategies: []contracts.Strategy{
		{ID: "momentum-us", TickerCount: 120, Active: true},
		{ID: "earnings-llm", TickerCount: 35, Active: true},
		{ID: "empty", TickerCount: 0, Active: true},
	}}

	w, err := NewRegistrySource(reg).Weights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, contracts.Weights{"momentum-us": 120, "earnings-llm": 35, "empty": 0}, w)
}

func TestRegistrySource_Error(t *testing.T) {
	reg := &fakeRegistry{err: errors.New("db down")}

	_, err := NewRegistrySource(reg).Weights(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestOverlay(t *testing.T) {
	o := Overlay{
		Base:      Static{"a": 10, "b": 20},
		Overrides: Static{"b": 2, "c": 3},
	}

	w, err := o.Weights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, contracts.Weights{"a": 10, "b": 2, "c": 3}, w)
}

func TestStatic_ReturnsCopy(t *testing.T) {
	s := Static{"a": 1}
	w, err := s.Weights(context.Background())
	require.NoError(t, err)

	w["a"] = 99
	assert.Equal(t, 1.0, s["a"])
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    contracts.Weights
		wantErr string
	}{
		{
			name: "valid",
			yaml: "weights:\n  momentum-us: 120\n  earnings-llm: 35.5\n",
			want: contracts.Weights{"momentum-us": 120, "earnings-llm": 35.5},
		},
		{
			name: "empty map",
			yaml: "weights: {}\n",
			want: contracts.Weights{},
		},
		{
			name:    "negative weight",
			yaml:    "weights:\n  bad: -1\n",
			wantErr: "must be >= 0",
		},
		{
			name:    "unknown field",
			yaml:    "weight:\n  typo: 1\n",
			wantErr: "decode weights",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Parse([]byte(tt.yaml))
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, w)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weights:\n  screener-daily: 4\n"), 0o600))

	src, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, src.Path())

	w, err := src.Weights(context.Background())
	require.NoError(t, err)
	assert.Equal(t, contracts.Weights{"screener-daily": 4}, w)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCachedSource_DisabledRedisFallsThrough(t *testing.T) {
	src := &countingSource{w: contracts.Weights{"a": 1}}
	cache := redis.NewCache(redis.NewFromRedis(nil, "test"))
	cached := NewCachedSource(src, cache, time.Minute, logger.Nop())

	for i := 0; i < 3; i++ {
		w, err := cached.Weights(context.Background())
		require.NoError(t, err)
		assert.Equal(t, contracts.Weights{"a": 1}, w)
	}
	assert.Equal(t, 3, src.calls)
	assert.NoError(t, cached.Invalidate(context.Background()))
}
