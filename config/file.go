package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindConfigFile walks from path up through parent directories looking for
// the first matching config filename.
func FindConfigFile(path string, cfgFilenames []string) (string, error) {
	var err error

	var dir string
	if path == "." {
		dir, err = os.Getwd()
	} else {
		dir = path
		_, err = os.Stat(dir)
	}

	if err != nil {
		return "", fmt.Errorf("unable to get directory %q to find config: %w", dir, err)
	}

	cfg := findConfigInDir(dir, cfgFilenames)

	for cfg == "" && dir != filepath.Dir(dir) {
		dir = filepath.Dir(dir)
		cfg = findConfigInDir(dir, cfgFilenames)
	}

	if cfg == "" {
		return "", fmt.Errorf("config not found. want one of %v under %s", cfgFilenames, dir)
	}

	return cfg, nil
}

func findConfigInDir(dir string, cfgFilenames []string) string {
	for _, cfgName := range cfgFilenames {
		path := filepath.Join(dir, cfgName)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}
