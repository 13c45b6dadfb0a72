// Package utils holds platform checks shared by commands.
package utils

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// defaultPathExt is used when PATHEXT is unset.
const defaultPathExt = ".COM;.EXE;.BAT;.CMD"

// IsExecutable reports whether the file at path can be started directly.
// Directories never can. On Windows the extension decides, elsewhere any
// execute bit.
func IsExecutable(path string, info os.FileInfo) bool {
	switch {
	case info == nil || info.IsDir():
		return false
	case runtime.GOOS == "windows":
		return HasExecutableExt(path, os.Getenv("PATHEXT"))
	default:
		return info.Mode().Perm()&0o111 != 0
	}
}

// HasExecutableExt reports whether path ends in an extension listed in
// pathext, a PATHEXT-style list where "" means the Windows default.
// Matching ignores case and accepts entries without a leading dot.
func HasExecutableExt(path, pathext string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	if pathext == "" {
		pathext = defaultPathExt
	}
	for _, entry := range strings.Split(pathext, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.HasPrefix(entry, ".") {
			entry = "." + entry
		}
		if strings.EqualFold(entry, ext) {
			return true
		}
	}
	return false
}
