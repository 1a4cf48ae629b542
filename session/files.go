package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
)

// fileTimeLayout stamps result file names.
const fileTimeLayout = "20060102_150405"

// loadConcurrency bounds LoadAll's open files.
const loadConcurrency = 8

// FileName returns the result file name for a session saved at t.
func FileName(t time.Time) string {
	return "experiment_result_" + t.Format(fileTimeLayout) + ".json"
}

// Save writes doc to dir under FileName(doc.Config.CreatedAt), or the
// current time when CreatedAt is zero, and returns the full path. An
// existing file is never replaced: the error wraps ErrResultExists.
func Save(dir string, doc *Document) (string, error) {
	stamp := doc.Config.CreatedAt
	if stamp.IsZero() {
		stamp = time.Now()
	}
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return "", fmt.Errorf("Save: %w", err)
	}
	path := filepath.Join(dir, FileName(stamp))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("Save: %s: %w", path, ErrResultExists)
	}
	if err != nil {
		return "", fmt.Errorf("Save: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("Save: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("Save: %w", err)
	}

	return path, nil
}

// Load reads and validates one result document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("Load: %s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("Load: %s: %w", path, err)
	}

	return &doc, nil
}

// LoadAll loads paths concurrently. The result preserves input order; the
// first failure cancels the remaining reads.
func LoadAll(ctx context.Context, paths []string) ([]*Document, error) {
	docs := make([]*Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)
	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := Load(p)
			if err != nil {
				return err
			}
			docs[i] = doc

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return docs, nil
}
