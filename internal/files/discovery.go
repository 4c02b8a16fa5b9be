package files

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"oilpulse/internal/config"
	apperrors "oilpulse/internal/errors"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// FindFilesByPattern finds files in dir matching a glob pattern
func FindFilesByPattern(dir, pattern string) ([]FileInfo, error) {
	searchPattern := filepath.Join(dir, pattern)

	matches, err := filepath.Glob(searchPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if info.IsDir() {
			continue
		}
		files = append(files, FileInfo{
			Path:    match,
			Name:    filepath.Base(match),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return files, nil
}

// GetLatestFile returns the most recently modified file from a list
func GetLatestFile(files []FileInfo) (FileInfo, bool) {
	if len(files) == 0 {
		return FileInfo{}, false
	}

	latest := files[0]
	for _, file := range files[1:] {
		if file.ModTime.After(latest.ModTime) {
			latest = file
		}
	}

	return latest, true
}

// GetLatestCleanedFile finds the most recently modified cleaned dataset
// under the processed-data directory. Downstream steps (EDA, modeling,
// dashboard) consume the path it returns; a NOT_FOUND error means no
// cleaning run has produced output yet.
func GetLatestCleanedFile(paths *config.Paths) (string, error) {
	found, err := FindFilesByPattern(paths.ProcessedDir, paths.CleanedCSVPattern())
	if err != nil {
		return "", err
	}

	latest, ok := GetLatestFile(found)
	if !ok {
		return "", apperrors.NewNotFoundError(
			fmt.Sprintf("cleaned dataset matching %s in %s", paths.CleanedCSVPattern(), paths.ProcessedDir), nil)
	}

	return latest.Path, nil
}
