package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/couchcryptid/crisis-data-etl/internal/domain"
)

// ReadPosts loads a dataset artifact: a JSON array of post records.
func ReadPosts(path string) ([]domain.Post, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	var posts []domain.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("parse dataset %s: %w", path, err)
	}
	return posts, nil
}

// WritePosts persists posts as a pretty-printed JSON array.
func WritePosts(path string, posts []domain.Post) error {
	if posts == nil {
		posts = []domain.Post{}
	}
	data, err := json.MarshalIndent(posts, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	return WriteFileAtomic(path, append(data, '\n'))
}

// WriteCSV persists a header row plus data rows.
func WriteCSV(path string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return WriteFileAtomic(path, buf.Bytes())
}

// WriteFileAtomic writes data through a temp file in the target directory and
// renames it into place, so readers never observe a truncated artifact and a
// failed run leaves any previous artifact intact.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write artifact %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace artifact %s: %w", path, err)
	}
	return nil
}
