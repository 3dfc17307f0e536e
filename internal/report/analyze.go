// internal/report/analyze.go
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mwiater/lmbench/internal/benchmark"
	"github.com/mwiater/lmbench/internal/logging"
)

// LoadedDocument pairs a parsed run document with the file it came from.
type LoadedDocument struct {
	Path     string
	Document *benchmark.RunDocument
}

// LoadDocuments reads every result document under dir, validating each file
// against the result schema. Invalid files are logged and excluded rather
// than aborting the analysis.
func LoadDocuments(dir string) ([]LoadedDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read results dir %s: %w", dir, err)
	}

	var docs []LoadedDocument
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read result file %s: %w", path, err)
		}
		if err := ValidateDocument(data); err != nil {
			logging.LogEvent("Skipping %s: %v", path, err)
			continue
		}
		var doc benchmark.RunDocument
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse result file %s: %w", path, err)
		}
		docs = append(docs, LoadedDocument{Path: path, Document: &doc})
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("no valid result documents found in %s", dir)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Document.StartedAtUTC.Before(docs[j].Document.StartedAtUTC)
	})
	return docs, nil
}

// RenderComparison renders every loaded document's summary table, newest last.
func RenderComparison(docs []LoadedDocument) string {
	var b strings.Builder
	for i, loaded := range docs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(skipStyle.Render(loaded.Path))
		b.WriteString("\n")
		b.WriteString(RenderTable(loaded.Document))
	}
	return b.String()
}
