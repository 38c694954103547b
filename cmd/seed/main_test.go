package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSupportDocs(t *testing.T) {
	t.Run("empty path uses built-ins", func(t *testing.T) {
		docs := loadSupportDocs("")
		if len(docs) != len(defaultSupportDocs) {
			t.Errorf("got %d docs, want %d built-ins", len(docs), len(defaultSupportDocs))
		}
	})

	t.Run("configured file wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "docs.json")
		payload := `[{"topic": "loyalty", "content": "Points never expire."}]`
		if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
			t.Fatal(err)
		}

		docs := loadSupportDocs(path)
		if len(docs) != 1 || docs[0].Topic != "loyalty" {
			t.Errorf("got %+v, want the configured doc", docs)
		}
	})

	t.Run("unreadable file falls back", func(t *testing.T) {
		docs := loadSupportDocs(filepath.Join(t.TempDir(), "missing.json"))
		if len(docs) != len(defaultSupportDocs) {
			t.Errorf("got %d docs, want %d built-ins", len(docs), len(defaultSupportDocs))
		}
	})
}
