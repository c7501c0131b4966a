package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"railspect/internal/analyzer"
)

// FileAnalyzer produces findings from one file's content.
type FileAnalyzer func(path, content string) []analyzer.Finding

// FileError records a file that could not be read during a scan.
type FileError struct {
	Path string
	Err  error
}

// Result holds findings plus per-file failures from one scan. A read
// failure never aborts the scan; it is recorded here and the scan
// continues with the remaining files.
type Result struct {
	Findings     []analyzer.Finding
	Errors       []FileError
	FilesScanned int
}

// Extension sets for the fixed source globs.
var (
	RubyExts = []string{".rb"}
	ViewExts = []string{".erb", ".haml"}
)

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"tmp":          true,
	"vendor":       true,
}

// Scan walks dir sequentially. A missing directory yields an empty
// result, not an error: Rails apps routinely lack one of the scanned
// subdirectories.
func Scan(dir string, exts []string, analyze FileAnalyzer) (Result, error) {
	return ScanParallel(dir, exts, analyze, 1)
}

// ScanParallel walks dir using N worker goroutines over the collected
// file list. workers=0 means runtime.NumCPU(), workers=1 is sequential.
func ScanParallel(dir string, exts []string, analyze FileAnalyzer, workers int) (Result, error) {
	paths, err := collect(dir, exts)
	if err != nil {
		return Result{}, err
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	var result Result
	if workers <= 1 {
		for _, path := range paths {
			findings, err := analyzeFile(path, analyze)
			mergeFile(&result, path, findings, err)
		}
		return result, nil
	}

	type fileResult struct {
		findings []analyzer.Finding
		err      error
	}

	results := make([]fileResult, len(paths))
	jobs := make(chan int, len(paths))
	for i := range paths {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				findings, err := analyzeFile(paths[i], analyze)
				results[i] = fileResult{findings: findings, err: err}
			}
		}()
	}
	wg.Wait()

	// Merge in path order so sequential and parallel scans agree.
	for i, path := range paths {
		mergeFile(&result, path, results[i].findings, results[i].err)
	}
	return result, nil
}

func collect(dir string, exts []string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	extSet := make(map[string]bool, len(exts))
	for _, e := range exts {
		extSet[e] = true
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if extSet[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return paths, nil
}

func analyzeFile(path string, analyze FileAnalyzer) ([]analyzer.Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return analyze(path, string(data)), nil
}

func mergeFile(result *Result, path string, findings []analyzer.Finding, err error) {
	if err != nil {
		result.Errors = append(result.Errors, FileError{Path: path, Err: err})
		return
	}
	result.Findings = append(result.Findings, findings...)
	result.FilesScanned++
}
