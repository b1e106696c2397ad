package workspace

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Diff holds the two-way set difference between two item lists.
type Diff struct {
	OnlyInA []string
	OnlyInB []string
}

// CompareFiles reads two files of newline-separated items and returns the
// items unique to each side, sorted. Blank lines are ignored and duplicates
// collapse.
func CompareFiles(pathA, pathB string) (Diff, error) {
	a, err := readItems(pathA)
	if err != nil {
		return Diff{}, err
	}
	b, err := readItems(pathB)
	if err != nil {
		return Diff{}, err
	}
	return Diff{
		OnlyInA: difference(a, b),
		OnlyInB: difference(b, a),
	}, nil
}

func readItems(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	items := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		item := strings.TrimSpace(line)
		if item != "" {
			items[item] = true
		}
	}
	return items, nil
}

func difference(a, b map[string]bool) []string {
	var out []string
	for item := range a {
		if !b[item] {
			out = append(out, item)
		}
	}
	sort.Strings(out)
	return out
}
