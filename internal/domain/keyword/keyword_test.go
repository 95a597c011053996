package keyword

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtract_Filters(t *testing.T) {
	got := Extract("Questo documento descrive della procedura essere QUESTA breve")

	want := []string{"descrive", "documento", "procedura"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Extract() = %v, want %v", got, want)
	}
}

func TestExtract_Deduplicates(t *testing.T) {
	got := Extract("network Network NETWORK network")
	if !reflect.DeepEqual(got, []string{"network"}) {
		t.Fatalf("expected single deduplicated keyword, got %v", got)
	}
}

func TestExtract_CapsAtFive(t *testing.T) {
	got := Extract("alphabet bravado charlie deltaforce echoing foxtrot golfing hotelier")
	if len(got) != MaxKeywords {
		t.Fatalf("expected %d keywords, got %d: %v", MaxKeywords, len(got), got)
	}
}

func TestExtract_Contract(t *testing.T) {
	inputs := []string{
		"",
		"a b c",
		"Il presente regolamento disciplina le modalità di accesso questo essere",
		strings.Repeat("ripetizione ", 20),
		"perché perché perché università università",
	}
	for _, in := range inputs {
		got := Extract(in)
		if got == nil {
			t.Fatalf("Extract(%q) returned nil, want empty slice", in)
		}
		if len(got) > MaxKeywords {
			t.Errorf("Extract(%q) returned %d keywords", in, len(got))
		}
		seen := map[string]bool{}
		for _, w := range got {
			if utf8.RuneCountInString(w) <= MinLength {
				t.Errorf("keyword %q too short", w)
			}
			if IsStopWord(w) {
				t.Errorf("keyword %q is a stop word", w)
			}
			if seen[w] {
				t.Errorf("duplicate keyword %q", w)
			}
			seen[w] = true
		}
	}
}

func TestExtract_CharacterLength(t *testing.T) {
	// "città!" is 6 characters but 7 bytes; "perché" is 6 characters.
	got := Extract("città! perché")
	if len(got) != 2 {
		t.Fatalf("expected both 6-character tokens, got %v", got)
	}
}

func TestIsStopWord(t *testing.T) {
	for _, w := range []string{"questo", "QUESTA", "Essere", "della"} {
		if !IsStopWord(w) {
			t.Errorf("IsStopWord(%q) = false", w)
		}
	}
	if IsStopWord("documento") {
		t.Error("documento is not a stop word")
	}
}
