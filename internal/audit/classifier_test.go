package audit_test

import (
	"testing"

	"samenvatter/internal/audit"
)

func TestStripRegionPrefix(t *testing.T) {
	cases := map[string]string{
		"LEIDEN - Er gebeurde iets":             "Er gebeurde iets",
		"Geen prefix hier":                      "Geen prefix hier",
		"  DEN HAAG - Het kabinet besloot  ":    "Het kabinet besloot",
		"LEIDEN/OEGSTGEEST - Twee gemeenten":    "Twee gemeenten",
		"ALPHEN-STAD - Tekst":                   "Tekst",
		"NOS - ANP - Dubbele bron":              "Dubbele bron",
		"Leiden - kleine letters blijven staan": "Leiden - kleine letters blijven staan",
		"LEIDEN-Geen spaties rond het streepje": "LEIDEN-Geen spaties rond het streepje",
		"":                                      "",
	}

	for in, want := range cases {
		if got := audit.StripRegionPrefix(in); got != want {
			t.Fatalf("StripRegionPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripRegionPrefixIsIdempotent(t *testing.T) {
	inputs := []string{
		"LEIDEN - Er gebeurde iets",
		"LEIDEN - DEN HAAG - tekst",
		"Geen prefix hier",
		"UTRECHT - ",
		"A - B - c",
	}

	for _, in := range inputs {
		once := audit.StripRegionPrefix(in)
		if twice := audit.StripRegionPrefix(once); twice != once {
			t.Fatalf("not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestClassifyFullyHuman(t *testing.T) {
	got := audit.Classify("", "Iets")

	if got.Status != audit.StatusFullyHuman || got.ChangePercentage != 0 {
		t.Fatalf("unexpected classification: %+v", got)
	}

	if got = audit.Classify("   ", "Iets"); got.Status != audit.StatusFullyHuman {
		t.Fatalf("expected whitespace-only AI text to count as empty, got %+v", got)
	}
}

func TestClassifyUnedited(t *testing.T) {
	got := audit.Classify("LEIDEN - X Y Z", "X Y Z")

	if got.Status != audit.StatusAIUnedited || got.ChangePercentage != 0 {
		t.Fatalf("unexpected classification: %+v", got)
	}
}

func TestClassifyEdited(t *testing.T) {
	got := audit.Classify("X Y Z", "X Y Q")

	if got.Status != audit.StatusAIEdited {
		t.Fatalf("expected edited status, got %s", got.Status)
	}

	if got.ChangePercentage != 33.3 {
		t.Fatalf("expected 33.3, got %v", got.ChangePercentage)
	}
}

func TestChangePercentage(t *testing.T) {
	cases := []struct {
		ai, human string
		want      float64
	}{
		{"", "", 0},
		{"", "a b", 100},
		{"a b", "", 100},
		{"a a b", "a b b", 33.3},
		{"a b c d", "d c b a", 0},
		{"een twee", "een twee drie vier", 50},
		{"x", "y", 100},
	}

	for _, tc := range cases {
		if got := audit.ChangePercentage(tc.ai, tc.human); got != tc.want {
			t.Fatalf("ChangePercentage(%q, %q) = %v, want %v", tc.ai, tc.human, got, tc.want)
		}
	}
}

func TestStatusLookups(t *testing.T) {
	cases := []struct {
		status             audit.Status
		name, label, class string
	}{
		{audit.StatusFullyHuman, "fully_human", "Volledig menselijk", "status-human"},
		{audit.StatusAIUnedited, "ai_unedited", "AI, niet bewerkt", "status-ai-unedited"},
		{audit.StatusAIEdited, "ai_edited", "AI, bewerkt", "status-ai-edited"},
	}

	for _, tc := range cases {
		if tc.status.String() != tc.name || tc.status.Label() != tc.label || tc.status.CSSClass() != tc.class {
			t.Fatalf("unexpected lookups for %d: %s %s %s",
				tc.status, tc.status.String(), tc.status.Label(), tc.status.CSSClass())
		}
	}
}
