package label

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeValid(t *testing.T) {
	doc, err := Normalize("Middleofnight.COM\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Domain != "middleofnight.com" {
		t.Fatalf("domain = %q", doc.Domain)
	}
	if doc.Label != "middleofnight" || doc.TLD != "com" {
		t.Fatalf("label/tld = %q/%q", doc.Label, doc.TLD)
	}
	if doc.Length != len("middleofnight") {
		t.Fatalf("length = %d", doc.Length)
	}
	if doc.HasHyphen {
		t.Fatal("expected no hyphen")
	}
}

func TestNormalizeHyphen(t *testing.T) {
	doc, err := Normalize("cloud-hosting.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !doc.HasHyphen {
		t.Fatal("expected hyphen")
	}
}

func TestNormalizeRejectsNoSeparator(t *testing.T) {
	_, err := Normalize("example")
	if !errors.Is(err, ErrNoSeparator) {
		t.Fatalf("expected ErrNoSeparator, got %v", err)
	}
}

func TestNormalizeRejectsInvalidChars(t *testing.T) {
	_, err := Normalize("exa_mple.com")
	if !errors.Is(err, ErrInvalidChars) {
		t.Fatalf("expected ErrInvalidChars, got %v", err)
	}
}

func TestNormalizeRejectsEmpty(t *testing.T) {
	_, err := Normalize("   ")
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestNormalizeLabelLengthBoundary(t *testing.T) {
	ok63 := strings.Repeat("a", 63) + ".com"
	if _, err := Normalize(ok63); err != nil {
		t.Fatalf("63-char label should be accepted: %v", err)
	}

	bad64 := strings.Repeat("a", 64) + ".com"
	if _, err := Normalize(bad64); !errors.Is(err, ErrLabelTooLong) {
		t.Fatalf("expected ErrLabelTooLong, got %v", err)
	}
}

func TestNormalizeRejectsEmptyLabelOrTLD(t *testing.T) {
	if _, err := Normalize(".com"); !errors.Is(err, ErrEmptyLabel) {
		t.Fatalf("expected ErrEmptyLabel, got %v", err)
	}
	if _, err := Normalize("example."); !errors.Is(err, ErrEmptyTLD) {
		t.Fatalf("expected ErrEmptyTLD, got %v", err)
	}
}

func TestNormalizeUsesLastDotAsSeparator(t *testing.T) {
	doc, err := Normalize("www.example.co.uk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.TLD != "uk" {
		t.Fatalf("tld = %q", doc.TLD)
	}
	if doc.Label != "www.example.co" {
		t.Fatalf("label = %q", doc.Label)
	}
}
