package registry

import (
	"encoding/json"
	"testing"
)

func TestDefaultModulesOrderedAndUnique(t *testing.T) {
	reg := New()
	modules := reg.Modules()

	if len(modules) == 0 {
		t.Fatal("expected a non-empty module catalog")
	}

	seen := map[string]bool{}
	for i, m := range modules {
		if m.ID == "" {
			t.Errorf("module %d has an empty ID", i)
		}
		if seen[m.ID] {
			t.Errorf("duplicate module ID %q", m.ID)
		}
		seen[m.ID] = true

		if i > 0 && modules[i-1].SortOrder > m.SortOrder {
			t.Errorf("modules out of order: %q (%d) before %q (%d)",
				modules[i-1].ID, modules[i-1].SortOrder, m.ID, m.SortOrder)
		}
	}

	for _, required := range []string{ModuleRegistration, ModuleSchedule, ModuleAnnouncements, ModuleTeams, ModuleVoting, ModuleCheckin, ModuleLeaderboard} {
		if !seen[required] {
			t.Errorf("catalog missing module %q", required)
		}
	}
}

func TestModuleLookup(t *testing.T) {
	reg := New()

	m, ok := reg.Module(ModuleRegistration)
	if !ok {
		t.Fatal("registration module not found")
	}
	if m.ID != ModuleRegistration {
		t.Errorf("got ID %q, want %q", m.ID, ModuleRegistration)
	}

	if _, ok := reg.Module("nonexistent"); ok {
		t.Error("lookup of unknown module should fail")
	}
}

func TestDefaultThemesAllValid(t *testing.T) {
	for key, theme := range DefaultThemes() {
		if err := theme.Validate(); err != nil {
			t.Errorf("preset %q fails validation: %v", key, err)
		}
	}
}

func TestThemeValidateRejectsMissingColor(t *testing.T) {
	theme := DefaultThemes()["default"]
	theme.Colors.Accent = ""

	if err := theme.Validate(); err == nil {
		t.Error("expected validation failure for missing accent color")
	}
}

func TestThemeValidateRejectsMissingFonts(t *testing.T) {
	theme := DefaultThemes()["hackathon"]
	theme.Fonts.Body = ""

	if err := theme.Validate(); err == nil {
		t.Error("expected validation failure for missing body font")
	}
}

func TestThemeReturnsCopy(t *testing.T) {
	reg := New()

	first, ok := reg.Theme("default")
	if !ok {
		t.Fatal("default preset not found")
	}
	first.Colors.Primary = "#000000"
	first.Name = "mutated"

	second, _ := reg.Theme("default")
	if second.Colors.Primary == "#000000" || second.Name == "mutated" {
		t.Error("mutating a returned theme leaked into the registry")
	}
}

func TestThemesMapIsCopy(t *testing.T) {
	reg := New()

	themes := reg.Themes()
	delete(themes, "default")

	if _, ok := reg.Theme("default"); !ok {
		t.Error("deleting from the returned map affected the registry")
	}
}

func TestParseThemeRoundTrip(t *testing.T) {
	original := DefaultThemes()["cultural"]
	raw, err := json.Marshal(original)
	if err != nil {
		t.Fatal(err)
	}

	parsed, err := ParseTheme(raw)
	if err != nil {
		t.Fatalf("ParseTheme failed: %v", err)
	}
	if parsed.Colors != original.Colors {
		t.Error("colors changed across encode/decode")
	}
	if parsed.Fonts != original.Fonts {
		t.Error("fonts changed across encode/decode")
	}
}

func TestParseThemeRejectsGarbage(t *testing.T) {
	if _, err := ParseTheme([]byte("not json")); err == nil {
		t.Error("expected error for non-JSON input")
	}
	if _, err := ParseTheme([]byte(`{"name": "empty"}`)); err == nil {
		t.Error("expected error for a theme with no colors")
	}
}

func TestDefaultEnabledModuleIDs(t *testing.T) {
	ids := DefaultEnabledModuleIDs()

	want := map[string]bool{ModuleRegistration: true, ModuleSchedule: true, ModuleAnnouncements: true}
	if len(ids) != len(want) {
		t.Fatalf("got %d default modules, want %d", len(ids), len(want))
	}
	for _, id := range ids {
		if !want[id] {
			t.Errorf("unexpected default module %q", id)
		}
	}
}
