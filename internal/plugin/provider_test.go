package plugin

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/frontvue/internal/config"
)

func TestNewPathsDefaults(t *testing.T) {
	dir := t.TempDir()
	paths, err := NewPaths(context.Background(), dir, nil)
	require.NoError(t, err)

	assert.Equal(t, Paths{
		Cwd:       dir,
		SourceDir: filepath.Join(dir, "src"),
		BuildDir:  filepath.Join(dir, "dist"),
	}, paths)
}

func TestNewPathsFromConfig(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	core, err := config.NewProxy(env.config, "frontvue")
	require.NoError(t, err)
	require.NoError(t, core.Set(ctx, KeySourceDir, "app"))
	require.NoError(t, core.Set(ctx, KeyBuildDir, "/tmp/out"))

	dir := t.TempDir()
	paths, err := NewPaths(ctx, dir, core)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "app"), paths.SourceDir)
	assert.Equal(t, filepath.Clean("/tmp/out"), paths.BuildDir)
}
