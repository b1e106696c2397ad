// Package workspace reconciles downloaded publications with inventory
// spreadsheets: matching titles to folders, building per-case workspace
// directories and reporting what is missing on either side.
package workspace

import (
	"encoding/csv"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FolderTitle pairs a publication folder with the title recorded in its
// title.txt.
type FolderTitle struct {
	Folder string
	Title  string
}

// ScanTitles walks root for directories containing a title.txt and returns
// folder/title pairs, sorted by the walk order.
func ScanTitles(root string) ([]FolderTitle, error) {
	var results []FolderTitle
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != "title.txt" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, filepath.Dir(path))
		if err != nil {
			return err
		}
		results = append(results, FolderTitle{
			Folder: rel,
			Title:  strings.TrimSpace(string(data)),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", root, err)
	}
	return results, nil
}

// WriteTitlesCSV writes folder/title pairs as a folder,title CSV.
func WriteTitlesCSV(titles []FolderTitle, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"folder", "title"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, t := range titles {
		if err := w.Write([]string{t.Folder, t.Title}); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

// MatchResult is the outcome of matching one CSV title against the scanned
// folders.
type MatchResult struct {
	Title   string
	Folders []string
}

// MatchTitles matches each title from the CSV at csvPath against the
// title.txt files under root. Comparison is case-sensitive but Unicode
// normalized, so composed and decomposed accents compare equal. It returns
// one result per CSV row; unmatched titles have an empty Folders slice.
func MatchTitles(csvPath, root string) ([]MatchResult, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", csvPath, err)
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", csvPath, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty CSV", csvPath)
	}

	titleCol := -1
	for i, name := range records[0] {
		if strings.EqualFold(name, "title") {
			titleCol = i
			break
		}
	}
	if titleCol < 0 {
		return nil, fmt.Errorf("%s: no title column", csvPath)
	}

	scanned, err := ScanTitles(root)
	if err != nil {
		return nil, err
	}
	byTitle := make(map[string][]string)
	for _, ft := range scanned {
		key := norm.NFC.String(ft.Title)
		byTitle[key] = append(byTitle[key], ft.Folder)
	}

	var results []MatchResult
	for _, row := range records[1:] {
		if titleCol >= len(row) {
			continue
		}
		title := strings.TrimSpace(row[titleCol])
		results = append(results, MatchResult{
			Title:   title,
			Folders: byTitle[norm.NFC.String(title)],
		})
	}
	return results, nil
}

// WriteMatchedCSV writes match results as a title,folder CSV with one row
// per matched folder. Unmatched titles are logged and left out.
func WriteMatchedCSV(results []MatchResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"title", "folder"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range results {
		if len(r.Folders) == 0 {
			slog.Warn("no folder matches title", "title", r.Title)
			continue
		}
		for _, folder := range r.Folders {
			if err := w.Write([]string{r.Title, folder}); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}
	w.Flush()
	return w.Error()
}

// MatchedCSVPath derives the output name for a matched CSV: the input base
// with an _updated suffix.
func MatchedCSVPath(csvPath string) string {
	ext := filepath.Ext(csvPath)
	return strings.TrimSuffix(csvPath, ext) + "_updated" + ext
}
