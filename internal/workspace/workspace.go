package workspace

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// WorkspacesDir is the directory workspace folders are created under.
const WorkspacesDir = "workspaces"

// CreateWorkspaces reads a CSV of id,folder rows and builds a workspace
// directory per row: workspaces/<id> (the id zero-padded to three digits)
// containing pdfs.txt and every .xlsx file copied from the source folder.
// Rows whose source folder is missing are logged and skipped.
func CreateWorkspaces(csvPath string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", csvPath, err)
	}
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", csvPath, err)
	}

	for i, row := range records {
		if i == 0 && looksLikeHeader(row) {
			continue
		}
		if len(row) < 2 {
			slog.Warn("skipping malformed row", "row", i+1)
			continue
		}
		id, folder := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
		if err := createWorkspace(id, folder); err != nil {
			slog.Warn("failed to create workspace", "id", id, "folder", folder, "error", err)
		}
	}
	return nil
}

func looksLikeHeader(row []string) bool {
	return len(row) >= 2 && strings.EqualFold(row[0], "id") && strings.EqualFold(row[1], "folder")
}

func createWorkspace(id, folder string) error {
	dir := filepath.Join(WorkspacesDir, PadID(id))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return fmt.Errorf("failed to read source folder: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name != "pdfs.txt" && !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		if err := copyFile(filepath.Join(folder, name), filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// PadID left-pads numeric workspace IDs with zeros to three digits.
func PadID(id string) string {
	for len(id) < 3 {
		id = "0" + id
	}
	return id
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dst, err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

// FolderSheets pairs a folder with the spreadsheet files found inside it.
type FolderSheets struct {
	Folder string
	Sheets []string
}

// ListSheets reads folder paths (one per line) from listPath and returns
// the .xlsx files in each. Missing folders are logged and reported with an
// empty Sheets slice.
func ListSheets(listPath string) ([]FolderSheets, error) {
	data, err := os.ReadFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", listPath, err)
	}

	var results []FolderSheets
	for _, line := range strings.Split(string(data), "\n") {
		folder := strings.TrimSpace(line)
		if folder == "" {
			continue
		}
		entries, err := os.ReadDir(folder)
		if err != nil {
			slog.Warn("cannot read folder", "folder", folder, "error", err)
			results = append(results, FolderSheets{Folder: folder})
			continue
		}
		var sheets []string
		for _, entry := range entries {
			if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".xlsx") {
				sheets = append(sheets, entry.Name())
			}
		}
		results = append(results, FolderSheets{Folder: folder, Sheets: sheets})
	}
	return results, nil
}

// WriteSheetsCSV writes folder/sheet pairs as a folder,sheet CSV with one
// row per spreadsheet.
func WriteSheetsCSV(results []FolderSheets, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"folder", "sheet"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range results {
		for _, sheet := range r.Sheets {
			if err := w.Write([]string{r.Folder, sheet}); err != nil {
				return fmt.Errorf("failed to write row: %w", err)
			}
		}
	}
	w.Flush()
	return w.Error()
}
