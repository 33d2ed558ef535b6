package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSectionsPreserveOrder(t *testing.T) {
	sections := Default().Sections([]string{"default", "imagen"})

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	if sections[0].Title != "Default Agent 🔄" {
		t.Errorf("expected first title 'Default Agent 🔄', got %q", sections[0].Title)
	}
	if sections[1].Title != "Generate Images 🎨" {
		t.Errorf("expected second title 'Generate Images 🎨', got %q", sections[1].Title)
	}
}

func TestSectionsSkipUnknownAgents(t *testing.T) {
	sections := Default().Sections([]string{"nope", "crypto news", "", "also-missing"})

	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	if sections[0].AgentID != "crypto news" {
		t.Errorf("expected crypto news section, got %s", sections[0].AgentID)
	}
}

func TestAgentWithoutExamplesHasNoOption(t *testing.T) {
	if _, ok := Default().Option("hotel finder"); ok {
		t.Error("expected hotel finder to have no prefilled option")
	}
	if name := Default().DisplayName("hotel finder"); name != "Hotel Finder" {
		t.Errorf("expected 'Hotel Finder', got %q", name)
	}
}

func TestDisplayNameFallback(t *testing.T) {
	if got := Default().DisplayName("missing"); got != "Undefined Agent" {
		t.Errorf("expected 'Undefined Agent', got %q", got)
	}
}

func TestReturnedOptionsAreCopies(t *testing.T) {
	opt, ok := Default().Option("default")
	if !ok {
		t.Fatal("expected default option")
	}
	opt.Examples[0].Text = "mutated"

	again, _ := Default().Option("default")
	if again.Examples[0].Text == "mutated" {
		t.Error("catalog must not be mutable through returned options")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `agents:
  - id: alpha
    name: Alpha Agent
    prefilled:
      title: Alpha
      examples:
        - text: first
          agent: alpha
  - id: beta
    name: Beta Agent
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cat, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if ids := cat.IDs(); len(ids) != 2 || ids[0] != "alpha" || ids[1] != "beta" {
		t.Errorf("unexpected ids %v", ids)
	}
	if sections := cat.Sections([]string{"beta", "alpha"}); len(sections) != 1 || sections[0].Examples[0].Text != "first" {
		t.Errorf("unexpected sections %+v", sections)
	}
}

func TestLoadRejectsEmptyID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte("agents:\n  - name: nameless\n"), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for empty id")
	}
}
