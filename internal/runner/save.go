package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mwiater/ragmark/internal/util"
)

// Save writes the report as indented JSON under dir and returns the file
// path. Filenames sort chronologically so runs can be diffed in order.
func Save(report *Report, dir string) (string, error) {
	if report == nil {
		return "", fmt.Errorf("report is nil")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create results directory: %w", err)
	}

	stamp, err := time.Parse(time.RFC3339, report.Timestamp)
	if err != nil {
		stamp = time.Now().UTC()
	}
	short := report.RunID
	if i := strings.Index(short, "-"); i > 0 {
		short = short[:i]
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.json", stamp.Format("20060102T150405Z"), short))

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := util.WriteFile(path, data); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
