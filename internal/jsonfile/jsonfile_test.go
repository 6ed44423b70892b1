package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/frontvue/internal/errors"
)

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "package.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDetectIndent(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"two spaces", "{\n  \"a\": 1\n}", "  "},
		{"four spaces", "{\n    \"a\": 1\n}", "    "},
		{"tabs", "{\n\t\"a\": 1\n}", "\t"},
		{"crlf", "{\r\n   \"a\": 1\r\n}", "   "},
		{"single line", `{"a":1}`, DefaultIndent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectIndent([]byte(tt.data)))
		})
	}
}

func TestReadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := New(filepath.Join(t.TempDir(), "nope.json")).Read()
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeFileNotFound))
	})

	t.Run("not json", func(t *testing.T) {
		_, err := New(writeFixture(t, "name: yaml")).Read()
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.ErrCodeFileNotJSON))
	})
}

func TestSetPreservesOrderAndIndent(t *testing.T) {
	path := writeFixture(t, "{\n    \"name\": \"app\",\n    \"version\": \"1.0.0\",\n    \"files\": [\"dist\"]\n}")
	f := New(path)

	require.NoError(t, f.Set(Path("config", "frontvue", "plugin-a:x"), 1))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "{\n" +
		"    \"name\": \"app\",\n" +
		"    \"version\": \"1.0.0\",\n" +
		"    \"files\": [\n" +
		"        \"dist\"\n" +
		"    ],\n" +
		"    \"config\": {\n" +
		"        \"frontvue\": {\n" +
		"            \"plugin-a:x\": 1\n" +
		"        }\n" +
		"    }\n" +
		"}\n"
	assert.Equal(t, want, string(data))
	assert.Equal(t, "    ", f.Indent())
}

func TestDelete(t *testing.T) {
	path := writeFixture(t, `{"name":"app","config":{"frontvue":{"k":true}}}`)
	f := New(path)

	require.NoError(t, f.Delete(Path("config", "frontvue")))

	res, err := f.Get("config")
	require.NoError(t, err)
	assert.Equal(t, "{}", res.Raw)

	require.NoError(t, f.Delete(Path("does", "not", "exist")))
}

func TestUpdateUnchangedSkipsWrite(t *testing.T) {
	content := `{"name":"app"}`
	path := writeFixture(t, content)

	require.NoError(t, New(path).Update(func(data []byte) ([]byte, error) {
		return data, nil
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestWriteRejectsInvalidJSON(t *testing.T) {
	path := writeFixture(t, `{}`)
	err := New(path).Write([]byte("{"))
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeFileWriteFailed))
}

func TestPathEscapesScopedNames(t *testing.T) {
	path := writeFixture(t, `{"dependencies":{}}`)
	f := New(path)

	require.NoError(t, f.Set(Path("dependencies", "@vue/cli.core"), "^1.0.0"))

	res, err := f.Get("dependencies")
	require.NoError(t, err)
	assert.Equal(t, "^1.0.0", res.Map()["@vue/cli.core"].String())
}

func TestWriteKeepsFileMode(t *testing.T) {
	path := writeFixture(t, `{}`)
	require.NoError(t, os.Chmod(path, 0o640))

	require.NoError(t, New(path).Set("a", 1))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}
