package locale

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const testDictionary = `
[[teams]]
id = 1
name = "Tottenham Hotspur"
localized_name = "토트넘 홋스퍼"
localized_country = "잉글랜드"

[[teams]]
id = 2
name = "Arsenal"
localized_name = "아스날"
localized_country = "잉글랜드"

[[players]]
id = 10
name = "Son Heung-min"
localized_name = "손흥민"
localized_country = "대한민국"
`

func loadTestDictionary(t *testing.T) *Dictionary {
	t.Helper()

	path := filepath.Join(t.TempDir(), "locale.toml")
	if err := os.WriteFile(path, []byte(testDictionary), 0644); err != nil {
		t.Fatalf("writing dictionary: %v", err)
	}

	dict, err := Load(path)
	if err != nil {
		t.Fatalf("loading dictionary: %v", err)
	}
	return dict
}

func TestLoadEmptyPath(t *testing.T) {
	dict, err := Load("")
	if err != nil {
		t.Fatalf("expected no error for empty path, got %v", err)
	}
	if ids := dict.MatchTeamIDs("anything"); ids != nil {
		t.Errorf("empty dictionary should match nothing, got %v", ids)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEntryLookup(t *testing.T) {
	dict := loadTestDictionary(t)

	e, ok := dict.TeamEntry(1)
	if !ok {
		t.Fatal("expected team 1 to exist")
	}
	if e.LocalizedName != "토트넘 홋스퍼" {
		t.Errorf("unexpected localized name %q", e.LocalizedName)
	}

	if _, ok := dict.TeamEntry(99); ok {
		t.Error("expected team 99 to be absent")
	}

	p, ok := dict.PlayerEntry(10)
	if !ok {
		t.Fatal("expected player 10 to exist")
	}
	if p.Name != "Son Heung-min" {
		t.Errorf("unexpected name %q", p.Name)
	}
}

func TestMatchIDs(t *testing.T) {
	dict := loadTestDictionary(t)

	tests := []struct {
		name string
		text string
		want []int64
	}{
		{"localized substring", "토트넘", []int64{1}},
		{"canonical substring", "arsenal", []int64{2}},
		{"case insensitive", "TOTTENHAM", []int64{1}},
		{"shared substring sorted", "스", []int64{1, 2}},
		{"country not searched", "잉글랜드", nil},
		{"no match", "liverpool", nil},
		{"empty text", "  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dict.MatchTeamIDs(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MatchTeamIDs(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}

	if got := dict.MatchPlayerIDs("손흥민"); !reflect.DeepEqual(got, []int64{10}) {
		t.Errorf("MatchPlayerIDs = %v, want [10]", got)
	}
}
