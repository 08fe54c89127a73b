package deck

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const ext = ".csv"

// List returns the deck names stored in dir, sorted.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	sort.Strings(names)
	return names, nil
}

// Resolve maps a deck argument to a file path. Names without a path separator
// or extension are looked up in dir.
func Resolve(dir, name string) string {
	if strings.ContainsRune(name, os.PathSeparator) || strings.EqualFold(filepath.Ext(name), ext) {
		return name
	}
	return filepath.Join(dir, name+ext)
}

// NameFromPath derives a deck name from its file path.
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Import validates src as a deck and copies it into dir under name.
// It returns the destination path and the number of cards.
func Import(src, dir, name string, cols Columns, force bool) (string, int, error) {
	cards, err := Load(src, cols)
	if err != nil {
		return "", 0, fmt.Errorf("invalid deck %s: %w", src, err)
	}
	if name == "" {
		name = NameFromPath(src)
	}
	dst := filepath.Join(dir, name+ext)
	if !force {
		if _, err := os.Stat(dst); err == nil {
			return "", 0, fmt.Errorf("deck already exists: %s (use --force to overwrite)", dst)
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", 0, fmt.Errorf("failed to stat deck: %w", err)
		}
	}
	if err := copyAtomic(src, dst); err != nil {
		return "", 0, err
	}
	return dst, len(cards), nil
}

func copyAtomic(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("failed to create deck dir: %w", err)
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open deck: %w", err)
	}
	defer func() {
		if cerr := in.Close(); cerr != nil {
			// Best-effort close for read-only source.
			_ = cerr
		}
	}()

	tmpFile, err := os.CreateTemp(filepath.Dir(dst), "deck-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp deck: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmpFile, in); err != nil {
		return fmt.Errorf("failed to copy deck: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close deck: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("failed to write deck: %w", err)
	}
	return nil
}
