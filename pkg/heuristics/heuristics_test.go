package heuristics

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestDefaults(t *testing.T) {
	h := Defaults()

	if h.Thresholds.FuzzySimilarityBrand != 90 {
		t.Errorf("FuzzySimilarityBrand = %d, want 90", h.Thresholds.FuzzySimilarityBrand)
	}
	if h.Thresholds.FuzzyUnambiguousMargin != 3 {
		t.Errorf("FuzzyUnambiguousMargin = %d, want 3", h.Thresholds.FuzzyUnambiguousMargin)
	}
	if h.FeatureFlags.FallbackFuzzyBrand || h.FeatureFlags.FallbackFuzzyCategory {
		t.Error("fuzzy fallback flags should default off")
	}
	if len(h.CategorySynonyms["smartphones"]) == 0 {
		t.Error("smartphones synonyms should be populated")
	}
	if len(h.IntentKeywords["cart"]) == 0 {
		t.Error("cart keywords should be populated")
	}
}

func TestLoadMissingFile(t *testing.T) {
	h := Load(filepath.Join(t.TempDir(), "nope.json"), testLogger())
	if h.Thresholds.FuzzySimilarityBrand != 90 {
		t.Error("missing file should fall back to defaults")
	}
}

func TestLoadMergesIntentKeywordsPerIntent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heuristics.json")
	content := `{"intent_keywords": {"cart": ["basket"]}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	h := Load(path, testLogger())
	if len(h.IntentKeywords["cart"]) != 1 || h.IntentKeywords["cart"][0] != "basket" {
		t.Errorf("cart keywords not overridden: %v", h.IntentKeywords["cart"])
	}
	// Untouched intents keep their defaults.
	if len(h.IntentKeywords["support"]) == 0 {
		t.Error("support keywords should survive a partial override")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heuristics.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	h := Load(path, testLogger())
	if len(h.GenericNouns) == 0 {
		t.Error("invalid file should fall back to defaults")
	}
}

func TestBuildCategorySynonyms(t *testing.T) {
	h := Defaults()
	m := h.BuildCategorySynonyms([]string{"Smartphones", "laptops"})

	if got := m["phone"]; got != "Smartphones" {
		t.Errorf(`m["phone"] = %q, want "Smartphones"`, got)
	}
	if got := m["notebook"]; got != "laptops" {
		t.Errorf(`m["notebook"] = %q, want "laptops"`, got)
	}
	// Synonyms for categories outside the allowed set are dropped.
	if _, ok := m["tv"]; ok {
		t.Error(`m["tv"] should be absent when televisions not allowed`)
	}
}

func TestIsGenericNoun(t *testing.T) {
	h := Defaults()
	if !h.IsGenericNoun("Phones") {
		t.Error("Phones should be generic")
	}
	if h.IsGenericNoun("samsung") {
		t.Error("samsung should not be generic")
	}
}
