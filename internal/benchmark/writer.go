// internal/benchmark/writer.go
package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mwiater/lmbench/internal/logging"
)

// WriteResults writes the run document to a JSON file under dir. When
// explicitPath is non-empty it overrides the generated filename. The written
// path is returned.
func WriteResults(doc *RunDocument, dir, explicitPath string) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("no results to write")
	}

	fileName := explicitPath
	if fileName == "" {
		var modelNames []string
		for _, result := range doc.Results {
			modelNames = append(modelNames, result.ModelName)
		}
		fileName = filepath.Join(dir, fmt.Sprintf("%s-%d.json", Slugify(strings.Join(modelNames, "-")), doc.Runs))
	}

	if parent := filepath.Dir(fileName); parent != "" && parent != "." {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return "", fmt.Errorf("error creating results directory: %w", err)
		}
	}

	file, err := os.Create(fileName)
	if err != nil {
		return "", fmt.Errorf("error creating result file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return "", fmt.Errorf("error writing results to file: %w", err)
	}

	logging.LogEvent("Benchmark results written to %s", fileName)

	return fileName, nil
}

// Slugify converts a string into a "slug" format,
// including replacing colons (:) with underscores (_).
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ":", "_")
	re := regexp.MustCompile(`[^a-z0-9_]+`)
	s = re.ReplaceAllString(s, "-")
	s = regexp.MustCompile(`-+`).ReplaceAllString(s, "-")
	s = strings.Trim(s, "-_")

	return s
}
