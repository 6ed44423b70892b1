package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/frontvue/internal/errors"
	"github.com/felixgeelhaar/frontvue/internal/log"
	"github.com/felixgeelhaar/frontvue/internal/retry"
)

func newPackageJSON(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func storeOptions() []PackageJSONOption {
	return []PackageJSONOption{
		WithStoreLogger(log.Nop()),
		WithStoreRetry(retry.Options{Delay: time.Millisecond, Attempts: 2}),
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestPackageJSONStoreInitializesNamespace(t *testing.T) {
	path := newPackageJSON(t, "{\n\t\"name\": \"app\"\n}\n")

	_, err := NewPackageJSONStore(context.Background(), "frontvue", path, storeOptions()...)
	require.NoError(t, err)

	assert.Equal(t, "{\n\t\"name\": \"app\",\n\t\"config\": {\n\t\t\"frontvue\": {}\n\t}\n}\n", readFile(t, path))
}

func TestPackageJSONStoreKeepsExistingNamespace(t *testing.T) {
	content := "{\n  \"config\": {\n    \"frontvue\": {\n      \"a\": 1\n    }\n  }\n}\n"
	path := newPackageJSON(t, content)

	s, err := NewPackageJSONStore(context.Background(), "frontvue", path, storeOptions()...)
	require.NoError(t, err)
	assert.Equal(t, content, readFile(t, path))

	cfg, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Config{"a": 1.0}, cfg)
}

func TestPackageJSONStoreUpdate(t *testing.T) {
	ctx := context.Background()
	path := newPackageJSON(t, `{"name":"app","config":{"frontvue":{"b":1,"a":2,"gone":true},"other":{"x":1}},"scripts":{}}`)

	s, err := NewPackageJSONStore(ctx, "frontvue", path, storeOptions()...)
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, Config{"a": "two", "b": 1, "plugin-x:list": []string{"src"}}))

	want := "{\n" +
		"  \"name\": \"app\",\n" +
		"  \"config\": {\n" +
		"    \"frontvue\": {\n" +
		"      \"b\": 1,\n" +
		"      \"a\": \"two\",\n" +
		"      \"plugin-x:list\": [\n" +
		"        \"src\"\n" +
		"      ]\n" +
		"    },\n" +
		"    \"other\": {\n" +
		"      \"x\": 1\n" +
		"    }\n" +
		"  },\n" +
		"  \"scripts\": {}\n" +
		"}\n"
	assert.Equal(t, want, readFile(t, path))
}

func TestPackageJSONStoreFetchSeesExternalWrites(t *testing.T) {
	ctx := context.Background()
	path := newPackageJSON(t, `{}`)

	s, err := NewPackageJSONStore(ctx, "frontvue", path, storeOptions()...)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"config":{"frontvue":{"k":"external"}}}`), 0o600))

	cfg, err := s.Fetch(ctx)
	require.NoError(t, err)
	assert.Equal(t, Config{"k": "external"}, cfg)
}

func TestPackageJSONStoreDestroy(t *testing.T) {
	ctx := context.Background()
	path := newPackageJSON(t, `{"config":{"frontvue":{"k":"v"},"other":{}}}`)

	s, err := NewPackageJSONStore(ctx, "frontvue", path, storeOptions()...)
	require.NoError(t, err)

	old, err := s.Destroy(ctx)
	require.NoError(t, err)
	assert.Equal(t, Config{"k": "v"}, old)
	assert.Equal(t, "{\n  \"config\": {\n    \"other\": {}\n  }\n}\n", readFile(t, path))
}

func TestPackageJSONStoreErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewPackageJSONStore(ctx, "", "package.json", storeOptions()...)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfigInvalidNamespace))

	_, err = NewPackageJSONStore(ctx, "frontvue", newPackageJSON(t, "not json"), storeOptions()...)
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileNotJSON))

	path := newPackageJSON(t, `{}`)
	s, err := NewPackageJSONStore(ctx, "frontvue", path, storeOptions()...)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(`{"config":{"frontvue":"oops"}}`), 0o600))

	_, err = s.Fetch(ctx)
	assert.True(t, errors.HasCode(err, errors.ErrCodeConfigStoreFailed))
}

func TestManagerOverPackageJSON(t *testing.T) {
	ctx := context.Background()
	path := newPackageJSON(t, `{"name":"app"}`)

	m, err := NewManager(ctx, DefaultNamespace, WithPath(path), WithLogger(log.Nop()),
		WithRetry(retry.Options{Delay: time.Millisecond, Attempts: 2}))
	require.NoError(t, err)

	p, err := NewProxy(m, "a")
	require.NoError(t, err)
	require.NoError(t, p.Set(ctx, "q1", "v1"))

	all, err := m.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, Config{"plugin-a:q1": "v1"}, all)
}
