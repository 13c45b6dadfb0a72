package todo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads and parses the backing file at path.
// A missing file yields an error satisfying errors.Is(err, fs.ErrNotExist).
func Load(path string) (List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tasks file: %w", err)
	}
	return Parse(data)
}

// Parse decodes backing file contents. A JSON null document is an empty list.
func Parse(data []byte) (List, error) {
	var l List
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse tasks file: %w", err)
	}
	if l == nil {
		l = List{}
	}
	return l, nil
}

// Encode renders the list with 2-space indentation and a trailing newline.
func (l List) Encode() ([]byte, error) {
	if l == nil {
		l = List{}
	}
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tasks file: %w", err)
	}
	return append(data, '\n'), nil
}

// Save rewrites the whole backing file at path.
// The data goes to a sibling temp file first and is renamed over the file
// path resolves to, so a symlinked path keeps its link and the target keeps
// its permission bits.
func (l List) Save(path string) error {
	data, err := l.Encode()
	if err != nil {
		return err
	}

	target := resolveTarget(path)
	mode := os.FileMode(defaultFileMode)
	if info, err := os.Stat(target); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		// No-op after a successful rename.
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write tasks file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("write tasks file: %w", err)
	}
	return nil
}

const defaultFileMode = 0644

// resolveTarget follows symlinks in path. A dangling link resolves to the
// file it names; anything else unresolvable is returned unchanged.
func resolveTarget(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	dest, err := os.Readlink(path)
	if err != nil {
		return path
	}
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(filepath.Dir(path), dest)
	}
	return dest
}
