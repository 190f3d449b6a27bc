// Package snapshot stores introspection results on disk as timestamped
// JSON files so a lookup session can always start from the latest schema
// without re-introspecting the endpoint.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ibrunner/sageql/introspection"
)

const (
	filePrefix = "schema-"
	fileSuffix = ".json"
	// timestampLayout sorts lexically in chronological order, so the
	// newest snapshot is always the last filename.
	timestampLayout = "20060102T150405Z"
)

// Save writes a schema document as a new timestamped snapshot and returns
// its path.
func Save(dir string, doc *introspection.Document) (string, error) {
	if doc == nil || doc.Schema == nil {
		return "", &introspection.InvalidSchemaError{Reason: "missing schema root"}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("unable to encode snapshot: %w", err)
	}

	return SaveRaw(dir, data)
}

// SaveRaw writes pre-encoded snapshot bytes. An existing file is never
// overwritten: a second snapshot within the same second gets a numeric
// suffix, chosen so it still sorts after the first.
func SaveRaw(dir string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("unable to create snapshot dir: %w", err)
	}

	base := filePrefix + time.Now().UTC().Format(timestampLayout)
	path := filepath.Join(dir, base+fileSuffix)
	for n := 1; ; n++ {
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if os.IsExist(err) {
			path = filepath.Join(dir, fmt.Sprintf("%s_%d%s", base, n, fileSuffix))
			continue
		}
		if err != nil {
			return "", fmt.Errorf("unable to write snapshot: %w", err)
		}

		if _, err := file.Write(data); err != nil {
			file.Close()
			return "", fmt.Errorf("unable to write snapshot: %w", err)
		}
		if err := file.Close(); err != nil {
			return "", fmt.Errorf("unable to write snapshot: %w", err)
		}

		return path, nil
	}
}

// Latest returns the path of the newest snapshot in dir by filename
// timestamp ordering.
func Latest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("unable to read snapshot dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no schema snapshots in %s", dir)
	}

	sort.Strings(names)

	return filepath.Join(dir, names[len(names)-1]), nil
}

// LatestRaw returns the contents of the newest snapshot.
func LatestRaw(dir string) ([]byte, error) {
	path, err := Latest(dir)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read snapshot %s: %w", path, err)
	}

	return data, nil
}

// LatestDocument parses the newest snapshot into a schema document.
func LatestDocument(dir string) (*introspection.Document, error) {
	data, err := LatestRaw(dir)
	if err != nil {
		return nil, err
	}

	return introspection.ParseDocument(data)
}
