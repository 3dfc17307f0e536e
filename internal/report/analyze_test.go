// internal/report/analyze_test.go
package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()

	valid := `{
        "host": {"name": "local", "url": "http://localhost:11434"},
        "runs": 2,
        "startedAtUtc": "2026-08-01T10:00:00Z",
        "results": [{"modelName": "llama3.2:latest", "summary": {"runs": 2}}]
    }`
	invalid := `{"runs": 2}`

	if err := os.WriteFile(filepath.Join(dir, "valid.json"), []byte(valid), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "invalid.json"), []byte(invalid), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	docs, err := LoadDocuments(dir)
	if err != nil {
		t.Fatalf("LoadDocuments: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 valid document, got %d", len(docs))
	}
	if docs[0].Document.Results[0].ModelName != "llama3.2:latest" {
		t.Fatalf("unexpected document: %+v", docs[0].Document)
	}

	out := RenderComparison(docs)
	if !strings.Contains(out, "valid.json") || !strings.Contains(out, "llama3.2:latest") {
		t.Fatalf("unexpected comparison output:\n%s", out)
	}
}

func TestLoadDocumentsEmptyDir(t *testing.T) {
	if _, err := LoadDocuments(t.TempDir()); err == nil {
		t.Fatal("expected error for directory without results")
	}
}

func TestLoadDocumentsMissingDir(t *testing.T) {
	if _, err := LoadDocuments(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
