package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout names generated output files.
const TimestampLayout = "20060102_150405"

// ResolveGraphPath decides where the graph JSON goes. An existing directory,
// or a target ending in a path separator, receives a timestamped
// "<YYYYMMDD_HHMMSS>_network.json"; anything else is used as the file path.
// Missing directories are created either way. The result is absolute.
func ResolveGraphPath(target string, now time.Time) (string, error) {
	return ResolveOutputPath(target, now.Format(TimestampLayout)+"_network.json")
}

// ResolveOutputPath applies the directory-or-file policy of ResolveGraphPath
// with a caller-chosen file name for the directory case.
func ResolveOutputPath(target, fileName string) (string, error) {
	if target == "" {
		return "", errors.New("empty output path")
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}

	if isDirTarget(target) {
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return "", fmt.Errorf("create output dir: %w", err)
		}
		return filepath.Join(abs, fileName), nil
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	return abs, nil
}

func isDirTarget(target string) bool {
	if strings.HasSuffix(target, string(os.PathSeparator)) || strings.HasSuffix(target, "/") {
		return true
	}
	info, err := os.Stat(target)
	return err == nil && info.IsDir()
}
