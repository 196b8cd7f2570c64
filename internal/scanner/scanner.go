package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultMaxFileSize is the largest file the scanner will read (1 MB).
// Bigger files are still counted but their content is not loaded.
const DefaultMaxFileSize int64 = 1 << 20

// DefaultMaxFiles caps how many files are read per scan. Files beyond the
// cap are enumerated for the language histogram only.
const DefaultMaxFiles = 2000

// SkipReason explains why a file's content was not loaded.
type SkipReason string

const (
	SkipNone       SkipReason = ""
	SkipTooLarge   SkipReason = "too_large"
	SkipBinary     SkipReason = "binary"
	SkipUnreadable SkipReason = "unreadable"
)

// File holds one scanned file: its relative path, detected language, size,
// and either its content or a skip marker.
type File struct {
	RelPath  string
	Language string
	Size     int64
	Content  string
	Skipped  SkipReason
}

// Result is the outcome of scanning a project tree.
type Result struct {
	Files     []File
	Histogram map[string]int // language -> file count, includes skipped files
	FileCount int            // all files visited, including histogram-only ones
	Truncated bool           // file-count cap was hit
}

// Languages returns the number of distinct languages seen, ignoring
// files that could not be classified.
func (r *Result) Languages() int {
	n := 0
	for lang := range r.Histogram {
		if lang != "unknown" {
			n++
		}
	}
	return n
}

// Config controls the behaviour of Scan.
type Config struct {
	Include     []string // glob patterns; only matching files are included
	Exclude     []string // glob patterns; matching files are excluded
	MaxFileSize int64    // 0 = DefaultMaxFileSize
	MaxFiles    int      // 0 = DefaultMaxFiles
}

// Scan walks the directory tree rooted at root and returns every source
// file that passes filtering. Oversized, binary, and unreadable files are
// recorded with a skip marker but still counted in the histogram. The scan
// never mutates the source tree.
func Scan(root string, config Config) (*Result, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("scanner: resolve root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("scanner: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scanner: root %s is not a directory", root)
	}

	maxSize := config.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	maxFiles := config.MaxFiles
	if maxFiles <= 0 {
		maxFiles = DefaultMaxFiles
	}

	result := &Result{Histogram: make(map[string]int)}

	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Skip entries we cannot read instead of aborting.
			return nil
		}

		if d.IsDir() {
			if shouldExcludeDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, err := filepath.Rel(abs, path)
		if err != nil {
			return nil
		}
		relPath = filepath.ToSlash(relPath)

		if !MatchesInclude(relPath, config.Include) {
			return nil
		}
		if MatchesExclude(relPath, config.Exclude) {
			return nil
		}

		lang := DetectLanguage(d.Name())
		result.FileCount++
		result.Histogram[lang]++

		// Past the cap, files only feed the histogram.
		if len(result.Files) >= maxFiles {
			result.Truncated = true
			return nil
		}

		result.Files = append(result.Files, readFile(path, relPath, lang, maxSize))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanner: traversal: %w", err)
	}

	return result, nil
}

// readFile loads a single file, applying the size cap and binary check.
// Failures are recorded as skip markers, never returned as errors.
func readFile(path, relPath, lang string, maxSize int64) File {
	f := File{RelPath: relPath, Language: lang}

	info, err := os.Stat(path)
	if err != nil {
		f.Skipped = SkipUnreadable
		return f
	}
	f.Size = info.Size()

	if f.Size > maxSize {
		f.Skipped = SkipTooLarge
		return f
	}

	data, err := os.ReadFile(path)
	if err != nil {
		f.Skipped = SkipUnreadable
		return f
	}

	if isBinary(data) {
		f.Skipped = SkipBinary
		return f
	}

	f.Content = string(data)
	return f
}

// isBinary checks the first 512 bytes for NUL bytes, a simple but
// effective heuristic for binary content.
func isBinary(data []byte) bool {
	n := len(data)
	if n > 512 {
		n = 512
	}
	for i := 0; i < n; i++ {
		if data[i] == 0 {
			return true
		}
	}
	return false
}
