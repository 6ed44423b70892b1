package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineWriter(t *testing.T) {
	var lines []string
	w := NewLineWriter(func(msg string, _ ...any) { lines = append(lines, msg) })

	_, _ = w.Write([]byte("first\nsec"))
	_, _ = w.Write([]byte("ond\r\n\nthird"))
	w.Flush()

	assert.Equal(t, []string{"first", "second", "third"}, lines)
}
