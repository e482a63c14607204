// Package domain holds the shared types that flow through every stage of
// the indexing and query pipeline: the normalized document schema, the
// ranked query output, and the small value types invariant checks are
// written against.
package domain

// Document is the primary indexed entity: one registered domain name.
//
// Invariants: Domain == Label + "." + TLD; Length == len(Label);
// HasHyphen == strings.Contains(Label, "-"); Tokens is never empty.
type Document struct {
	Domain    string   `json:"domain"`
	Label     string   `json:"label"`
	TLD       string   `json:"tld"`
	Tokens    []string `json:"tokens"`
	Length    int      `json:"length"`
	HasHyphen bool     `json:"has_hyphen"`
}

// Valid reports whether d's derived fields (Domain, Length, HasHyphen,
// Tokens) are internally consistent with its Label and TLD.
func (d Document) Valid() bool {
	if d.Domain != d.Label+"."+d.TLD {
		return false
	}
	if d.Length != len([]rune(d.Label)) {
		return false
	}
	hasHyphen := false
	for _, r := range d.Label {
		if r == '-' {
			hasHyphen = true
			break
		}
	}
	if d.HasHyphen != hasHyphen {
		return false
	}
	return len(d.Tokens) > 0
}

// Hit is a ranked query result: the stored document plus the fields the
// re-ranker computed.
type Hit struct {
	Document
	MatchCount int     `json:"match_count"`
	Score      float64 `json:"score"`
}
