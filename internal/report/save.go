package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/mark3labs/astroguide/internal/logger"
)

const (
	readingsMarker = "<!-- READINGS -->"
	tableHeader    = "| Reading | Cities | Date |"
	tableSep       = "|---------|--------|------|"
)

// Save writes the reading to dir as a slug-named markdown file and adds it
// to the README.md index in the same directory. An existing file is never
// overwritten; a numeric suffix is added instead.
func Save(dir string, r Reading) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	name := slug.Make(r.Title())
	if name == "" {
		name = "reading"
	}
	path := uniquePath(dir, name)

	logger.Debug("report: writing %s", path)
	if err := os.WriteFile(path, []byte(Markdown(r)), 0644); err != nil {
		return "", fmt.Errorf("failed to write reading: %w", err)
	}

	readmePath := filepath.Join(dir, "README.md")
	row := fmt.Sprintf("| [%s](%s) | %s | %s |",
		escapeCell(r.Title()), filepath.Base(path), escapeCell(r.Summary()), r.CreatedAt.Format("2006-01-02"))
	if err := updateIndex(readmePath, row); err != nil {
		return "", fmt.Errorf("failed to update index: %w", err)
	}

	return path, nil
}

func uniquePath(dir, name string) string {
	path := filepath.Join(dir, name+".md")
	for i := 2; fileExists(path); i++ {
		path = filepath.Join(dir, fmt.Sprintf("%s-%d.md", name, i))
	}
	return path
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// updateIndex inserts row at the top of the readings table in readmePath,
// creating the file or the table as needed.
func updateIndex(readmePath, row string) error {
	existing, err := os.ReadFile(readmePath)
	var content string
	switch {
	case os.IsNotExist(err):
		content = fmt.Sprintf("# Readings\n\nReadings exported from astroguide.\n\n%s\n\n%s\n%s\n%s\n",
			readingsMarker, tableHeader, tableSep, row)
	case err != nil:
		return fmt.Errorf("failed to read index: %w", err)
	default:
		content = insertRow(string(existing), row)
	}

	return os.WriteFile(readmePath, []byte(content), 0644)
}

// insertRow places row directly under the table header that follows the
// marker. Without a marker, marker and table are appended.
func insertRow(content, row string) string {
	lines := strings.Split(content, "\n")

	markerIdx := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == readingsMarker {
			markerIdx = i
			break
		}
	}

	if markerIdx == -1 {
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		if strings.TrimSpace(content) != "" {
			content += "\n"
		}
		return content + readingsMarker + "\n\n" + tableHeader + "\n" + tableSep + "\n" + row + "\n"
	}

	at := markerIdx + 1
	for at < len(lines) && strings.TrimSpace(lines[at]) == "" {
		at++
	}

	var insert []string
	if at < len(lines) && strings.TrimSpace(lines[at]) == tableHeader {
		at++
		if at < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[at]), "|--") {
			at++
		}
		insert = []string{row}
	} else {
		insert = []string{"", tableHeader, tableSep, row}
	}

	out := make([]string, 0, len(lines)+len(insert))
	out = append(out, lines[:at]...)
	out = append(out, insert...)
	out = append(out, lines[at:]...)
	return strings.Join(out, "\n")
}
