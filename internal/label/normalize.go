// Package label parses and normalizes raw zonefile
// lines into validated document fields.
package label

import (
	"errors"
	"strings"

	"github.com/go-mizu/mizu/blueprints/zonesearch/internal/domain"
)

// MaxLabelLen is the longest label accepted: 63 characters,
// matching the DNS label length limit.
const MaxLabelLen = 63

// Rejection reasons. Callers use errors.Is to classify without string
// matching; the pipeline only ever counts these, it never treats them as
// fatal.
var (
	ErrEmpty        = errors.New("label: empty line")
	ErrInvalidChars = errors.New("label: contains characters other than letters, digits, '.', '-'")
	ErrNoSeparator  = errors.New("label: missing '.' separator")
	ErrEmptyLabel   = errors.New("label: empty label portion")
	ErrEmptyTLD     = errors.New("label: empty tld portion")
	ErrLabelTooLong = errors.New("label: exceeds 63 characters")
)

// Normalize validates and normalizes one raw zonefile line into a
// Document with Domain/Label/TLD/Length/HasHyphen populated. Tokens is
// left nil; the segmenter fills it in later.
//
// Normalization is case-folded to ASCII lowercase. Length and HasHyphen
// are always derived from the normalized Label, never trusted from the
// input line.
func Normalize(rawLine string) (domain.Document, error) {
	line := strings.TrimSpace(rawLine)
	if line == "" {
		return domain.Document{}, ErrEmpty
	}

	for _, r := range line {
		if !isAllowedRune(r) {
			return domain.Document{}, ErrInvalidChars
		}
	}

	lower := strings.ToLower(line)

	dot := strings.LastIndexByte(lower, '.')
	if dot < 0 {
		return domain.Document{}, ErrNoSeparator
	}

	lbl := lower[:dot]
	tld := lower[dot+1:]

	if lbl == "" {
		return domain.Document{}, ErrEmptyLabel
	}
	if tld == "" {
		return domain.Document{}, ErrEmptyTLD
	}

	length := len([]rune(lbl))
	if length > MaxLabelLen {
		return domain.Document{}, ErrLabelTooLong
	}

	return domain.Document{
		Domain:    lbl + "." + tld,
		Label:     lbl,
		TLD:       tld,
		Length:    length,
		HasHyphen: strings.Contains(lbl, "-"),
	}, nil
}

// isAllowedRune reports whether r is ASCII letter, digit, '.', '-' or
// whitespace — the only characters permitted on a zonefile line.
func isAllowedRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '.' || r == '-':
		return true
	case r == ' ' || r == '\t' || r == '\r' || r == '\n':
		return true
	default:
		return false
	}
}
