// Package jsonfile reads and rewrites JSON documents on disk while keeping
// their key order and indentation.
package jsonfile

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/felixgeelhaar/frontvue/internal/errors"
)

// DefaultIndent is used when the indentation of a file cannot be detected.
const DefaultIndent = "  "

const defaultPerm fs.FileMode = 0o644

// File is a JSON document on disk. The indentation found on the first
// successful read is reused for every write.
type File struct {
	path string

	mu     sync.Mutex
	indent string
}

// New returns a File for path. Nothing is read until Read is called.
func New(path string) *File {
	return &File{path: path}
}

// Path returns the file location.
func (f *File) Path() string {
	return f.path
}

// Indent returns the indentation used for writes.
func (f *File) Indent() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.indent == "" {
		return DefaultIndent
	}
	return f.indent
}

// Read returns the raw document. It fails with IO-001 when the file does not
// exist and IO-005 when the content is not valid JSON.
func (f *File) Read() ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *File) read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewFileNotFoundError(f.path)
		}
		return nil, errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read %s", f.path), err)
	}
	if !gjson.ValidBytes(data) {
		return nil, errors.NewFileNotJSONError(f.path)
	}
	if f.indent == "" {
		f.indent = DetectIndent(data)
	}
	return data, nil
}

// Get reads the file and returns the value at path.
func (f *File) Get(path string) (gjson.Result, error) {
	data, err := f.Read()
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.GetBytes(data, path), nil
}

// Write formats data with the file's indentation, appends a trailing
// newline and replaces the file atomically.
func (f *File) Write(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(data)
}

func (f *File) write(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New(errors.ErrCodeFileWriteFailed, fmt.Sprintf("refusing to write invalid JSON to %s", f.path))
	}
	indent := f.indent
	if indent == "" {
		indent = DefaultIndent
	}
	out := pretty.PrettyOptions(data, &pretty.Options{Indent: indent})
	out = append(bytes.TrimRight(out, "\n"), '\n')

	if err := writeFileAtomic(f.path, out); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, fmt.Sprintf("failed to write %s", f.path), err)
	}
	return nil
}

// Update reads the file, hands the document to fn and writes the result back.
// The read and the write happen under the same lock. When fn returns the
// document unchanged nothing is written.
func (f *File) Update(fn func(data []byte) ([]byte, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return err
	}
	next, err := fn(data)
	if err != nil {
		return err
	}
	if bytes.Equal(next, data) {
		return nil
	}
	return f.write(next)
}

// Set stores value at path.
func (f *File) Set(path string, value any) error {
	return f.Update(func(data []byte) ([]byte, error) {
		return sjson.SetBytes(data, path, value)
	})
}

// Delete removes the value at path. Missing paths are not an error.
func (f *File) Delete(path string) error {
	return f.Update(func(data []byte) ([]byte, error) {
		return sjson.DeleteBytes(data, path)
	})
}

// Path joins escaped key components into a gjson/sjson path.
func Path(keys ...string) string {
	escaped := make([]string, len(keys))
	for i, k := range keys {
		escaped[i] = gjson.Escape(k)
	}
	return strings.Join(escaped, ".")
}

// DetectIndent returns the leading whitespace of the first indented line in
// data, or DefaultIndent if there is none.
func DetectIndent(data []byte) string {
	for _, line := range bytes.Split(data, []byte("\n")) {
		line = bytes.TrimRight(line, "\r")
		trimmed := bytes.TrimLeft(line, " \t")
		if len(trimmed) == 0 || len(trimmed) == len(line) {
			continue
		}
		return string(line[:len(line)-len(trimmed)])
	}
	return DefaultIndent
}

// writeFileAtomic writes data to a temp file next to path and renames it
// over path. The original file is left untouched on failure.
func writeFileAtomic(path string, data []byte) error {
	perm := defaultPerm
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".frontvue-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}
