package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Base filenames for the datasets the pipeline reads and writes.
const (
	RawDataFile     = "oil_field_production_data.csv"
	CleanedBaseName = "cleaned_oil_field_production_data"
	ConfigFileName  = "oilpulse.yml"
)

// Paths contains all the application paths.
// This is the single source of truth for file locations: everything is
// relative to the project root, never the current working directory of
// individual calls.
type Paths struct {
	RootDir      string
	RawDataDir   string
	ProcessedDir string
	FiguresDir   string
	ReportsDir   string
	LogsDir      string
	FontsDir     string

	// Well-known files
	RawDataCSV string
	ConfigFile string

	// ArabicFontTTF is the optional Unicode font used for the Arabic
	// report captions. The report falls back to its Latin captions when
	// the file is absent.
	ArabicFontTTF string
}

// GetPaths returns the application paths rooted at the given directory.
// An empty root resolves to the current working directory.
//
// Directory structure:
//
//	root/
//	  ├── oilpulse.yml           (optional config)
//	  ├── data/
//	  │   ├── raw/               (immutable input CSV)
//	  │   └── processed/         (dated cleaned CSVs)
//	  ├── outputs/
//	  │   ├── figures/           (HTML+PNG chart pairs)
//	  │   └── reports/           (PDF and workbook reports)
//	  └── logs/
func GetPaths(root string) (*Paths, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
		root = wd
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root %s: %w", root, err)
	}

	dataDir := filepath.Join(absRoot, "data")
	rawDir := filepath.Join(dataDir, "raw")
	processedDir := filepath.Join(dataDir, "processed")
	outputsDir := filepath.Join(absRoot, "outputs")
	fontsDir := filepath.Join(absRoot, "fonts")

	return &Paths{
		RootDir:      absRoot,
		RawDataDir:   rawDir,
		ProcessedDir: processedDir,
		FiguresDir:   filepath.Join(outputsDir, "figures"),
		ReportsDir:   filepath.Join(outputsDir, "reports"),
		LogsDir:      filepath.Join(absRoot, "logs"),
		FontsDir:     fontsDir,

		RawDataCSV:    filepath.Join(rawDir, RawDataFile),
		ConfigFile:    filepath.Join(absRoot, ConfigFileName),
		ArabicFontTTF: filepath.Join(fontsDir, "Amiri-Regular.ttf"),
	}, nil
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.RawDataDir,
		p.ProcessedDir,
		p.FiguresDir,
		p.ReportsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// CleanedCSVPath returns the dated cleaned dataset path for the given day,
// e.g. cleaned_oil_field_production_data_20250731.csv. Re-runs on the same
// day land on the same path and overwrite.
func (p *Paths) CleanedCSVPath(date time.Time) string {
	filename := fmt.Sprintf("%s_%s.csv", CleanedBaseName, date.Format("20060102"))
	return filepath.Join(p.ProcessedDir, filename)
}

// CleanedCSVPattern returns the glob pattern matching all cleaned datasets
func (p *Paths) CleanedCSVPattern() string {
	return CleanedBaseName + "_*.csv"
}

// FigurePath returns the dated path for a figure file with the given extension
func (p *Paths) FigurePath(name string, date time.Time, ext string) string {
	filename := fmt.Sprintf("%s_%s.%s", name, date.Format("20060102"), ext)
	return filepath.Join(p.FiguresDir, filename)
}

// ReportPath returns the dated path for a report file with the given extension
func (p *Paths) ReportPath(name string, date time.Time, ext string) string {
	filename := fmt.Sprintf("%s_%s.%s", name, date.Format("20060102"), ext)
	return filepath.Join(p.ReportsDir, filename)
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
