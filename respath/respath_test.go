package respath

import "testing"

func TestParseValidPaths(t *testing.T) {
	cases := []struct {
		raw      string
		wantName string
		wantType string
		wantTags []string
	}{
		{"hero.texture", "hero", "texture", nil},
		{"hero.texture#diffuse", "hero", "texture", []string{"diffuse"}},
		{"hero.texture#diffuse#srgb", "hero", "texture", []string{"diffuse", "srgb"}},
	}
	for _, c := range cases {
		p, err := Parse(c.raw)
		if err != nil {
			t.Fatalf("Parse(%q): %v", c.raw, err)
		}
		if p.Name != c.wantName || p.Type != c.wantType {
			t.Fatalf("Parse(%q) = name=%q type=%q, want name=%q type=%q", c.raw, p.Name, p.Type, c.wantName, c.wantType)
		}
		if len(p.Tags) != len(c.wantTags) {
			t.Fatalf("Parse(%q) tags = %v, want %v", c.raw, p.Tags, c.wantTags)
		}
	}
}

func TestParseTagOrderInsensitive(t *testing.T) {
	a, err := Parse("hero.texture#zz#aa")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b, err := Parse("hero.texture#aa#zz")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if a.TagGlob != b.TagGlob {
		t.Fatalf("TagGlob differs by tag order: %v vs %v", a.TagGlob, b.TagGlob)
	}
	if a.NameHash != b.NameHash || a.TypeHash != b.TypeHash {
		t.Fatal("name/type hash should be identical regardless of tag order")
	}
}

func TestParseRejectsMissingDot(t *testing.T) {
	if _, err := Parse("heronotype"); err == nil {
		t.Fatal("expected error for path with no '.'")
	}
}

func TestParseRejectsMultipleDots(t *testing.T) {
	if _, err := Parse("hero.tex.ture"); err == nil {
		t.Fatal("expected error for path with two '.' separators")
	}
}

func TestParseRejectsEmptyName(t *testing.T) {
	if _, err := Parse(".texture"); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestParseRejectsEmptyType(t *testing.T) {
	if _, err := Parse("hero."); err == nil {
		t.Fatal("expected error for empty type")
	}
}

func TestParseRejectsTagSeparatorBeforeDot(t *testing.T) {
	if _, err := Parse("he#ro.texture"); err == nil {
		t.Fatal("expected error for '#' before '.'")
	}
}

func TestParseRejectsEmptyTagSegments(t *testing.T) {
	for _, raw := range []string{"b.c#", "b.c##1"} {
		if _, err := Parse(raw); err == nil {
			t.Fatalf("Parse(%q): expected error for empty tag segment", raw)
		}
	}
}

func TestParseRejectsDuplicateTags(t *testing.T) {
	if _, err := Parse("hero.texture#diffuse#diffuse"); err == nil {
		t.Fatal("expected error for duplicate tags")
	}
}

func TestParseRejectsTooManyTags(t *testing.T) {
	raw := "hero.texture#a#b#c#d#e#f#g#h#i"
	if _, err := Parse(raw); err == nil {
		t.Fatal("expected error for more than 8 tags")
	}
}

func TestParseAcceptsExactlyEightTags(t *testing.T) {
	raw := "hero.texture#a#b#c#d#e#f#g#h"
	p, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Tags) != 8 {
		t.Fatalf("Tags len = %d, want 8", len(p.Tags))
	}
}
