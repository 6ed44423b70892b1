package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/frontvue/internal/errors"
)

func TestNewProxy(t *testing.T) {
	_, err := NewProxy(nil, "a")
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfigManagerRequired))

	_, err = NewProxy(newMemoryManager(t, nil), "")
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfigPrefixRequired))
}

func TestProxyIsolatesPlugins(t *testing.T) {
	ctx := context.Background()
	m := newMemoryManager(t, Config{
		"plugin-other:x": "theirs",
		"unrelated":      true,
	})

	p, err := NewProxy(m, "mine")
	require.NoError(t, err)
	assert.Equal(t, "plugin-mine:", p.Prefix())

	require.NoError(t, p.Set(ctx, "x", "ours"))
	ok, err := p.Merge(ctx, Config{"y": 1, "plugin-mine:z": 2})
	require.NoError(t, err)
	assert.True(t, ok)

	own, err := p.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, Config{"x": "ours", "y": 1, "z": 2}, own)

	all, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, Config{
		"plugin-other:x": "theirs",
		"unrelated":      true,
		"plugin-mine:x":  "ours",
		"plugin-mine:y":  1,
		"plugin-mine:z":  2,
	}, all)

	v, err := p.GetKey(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "ours", v)

	subset, err := p.GetKeys(ctx, "y", "missing")
	require.NoError(t, err)
	assert.Equal(t, Config{"y": 1}, subset)

	has, err := p.Has(ctx, "unrelated")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, p.Remove(ctx, "x", "y"))
	own, err = p.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, Config{"z": 2}, own)

	theirs, err := m.GetKey(ctx, "plugin-other:x")
	require.NoError(t, err)
	assert.Equal(t, "theirs", theirs)
}

func TestProxyRejectsEmptyKeys(t *testing.T) {
	ctx := context.Background()
	p, err := NewProxy(newMemoryManager(t, nil), "a")
	require.NoError(t, err)

	_, err = p.GetKey(ctx, "")
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfigInvalidKey))
	_, err = p.GetKeys(ctx, "ok", "")
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfigInvalidKey))
	err = p.Set(ctx, "", "v")
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfigInvalidKey))
}

func TestPluginPrefix(t *testing.T) {
	assert.Equal(t, "plugin-a:", PluginPrefix("a"))
	assert.Equal(t, "plugin-a:", PluginPrefix("plugin-a:"))
	assert.Equal(t, "plugin-plugin-a:", PluginPrefix("plugin-a"))
}
