package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SceneExtensions lists the file suffixes recognised as scene files.
var SceneExtensions = []string{".yaml", ".yml", ".json"}

// FindLatestScene returns the most recently modified scene file in dir.
func FindLatestScene(dir string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !IsSceneFile(f.Name()) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no scene files found in %s", dir)
	}

	return latestFile, nil
}

// IsSceneFile reports whether name carries a scene file suffix.
func IsSceneFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SceneExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// EnsureDir creates dir (and parents) when missing.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// GenerateScenePath returns a timestamped scene file name inside dir.
func GenerateScenePath(dir string, now time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("signature_%s.yaml", now.Format("2006-01-02_15-04-05")))
}
