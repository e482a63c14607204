package queryengine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// canonicalTokens lowercases, deduplicates and sorts qtokens so that
// "foo foo" behaves like "foo" and "a b" shares a cache key with "b a".
func canonicalTokens(qtokens []string) []string {
	seen := make(map[string]struct{}, len(qtokens))
	out := make([]string, 0, len(qtokens))
	for _, t := range qtokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// searchFingerprint builds the stable cache key for a keyword search:
// a fingerprint of (op, q_canonical, tld, limit, min_match).
func searchFingerprint(qtokens []string, tld string, limit, minMatch int) string {
	canon := canonicalTokens(qtokens)
	raw := fmt.Sprintf("search|%s|%s|%d|%d", strings.Join(canon, " "), tld, limit, minMatch)
	return hashKey(raw)
}

// exactFingerprint builds the cache key for an exact lookup.
func exactFingerprint(domainName string) string {
	return hashKey(fmt.Sprintf("exact|%s", strings.ToLower(domainName)))
}

func hashKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
