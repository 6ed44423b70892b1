package exec

import (
	"bytes"
	"strings"
)

// LineWriter hands every complete non-empty line written to it to log.
type LineWriter struct {
	log func(msg string, args ...any)
	buf bytes.Buffer
}

// NewLineWriter creates a LineWriter logging through fn, typically a
// logger method such as Debug.
func NewLineWriter(fn func(msg string, args ...any)) *LineWriter {
	return &LineWriter{log: fn}
}

func (l *LineWriter) Write(p []byte) (int, error) {
	l.buf.Write(p)
	for {
		line, err := l.buf.ReadString('\n')
		if err != nil {
			// incomplete line, keep it for the next write
			l.buf.Reset()
			l.buf.WriteString(line)
			return len(p), nil
		}
		if s := strings.TrimRight(line, "\r\n"); s != "" {
			l.log(s)
		}
	}
}

// Flush logs a trailing line without newline.
func (l *LineWriter) Flush() {
	if s := strings.TrimSpace(l.buf.String()); s != "" {
		l.log(s)
	}
	l.buf.Reset()
}
