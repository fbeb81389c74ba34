// Package yamlfile reads and writes YAML documents used by the file storage driver.
package yamlfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Read decodes the YAML document at path. A missing file yields the zero value.
func Read[T any](path string) (T, error) {
	var result T

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("os.Open(%s)> %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := yaml.NewDecoder(file).Decode(&result); err != nil {
		// an empty file decodes to io.EOF
		if errors.Is(err, io.EOF) {
			return result, nil
		}
		return result, fmt.Errorf("yaml.NewDecoder().Decode()> %w", err)
	}
	return result, nil
}

// Write encodes data to path, replacing the file atomically.
func Write[T any](path string, data T) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s)> %w", dir, err)
	}

	file, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp(%s)> %w", dir, err)
	}
	tmpPath := file.Name()
	defer func() {
		_ = os.Remove(tmpPath)
	}()

	encoder := yaml.NewEncoder(file)
	if err := encoder.Encode(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("yaml.NewEncoder().Encode()> %w", err)
	}
	if err := encoder.Close(); err != nil {
		_ = file.Close()
		return fmt.Errorf("encoder.Close()> %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("file.Close()> %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("os.Rename(%s)> %w", path, err)
	}
	return nil
}
