package queryengine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalTokensDedupAndSort(t *testing.T) {
	require.Equal(t, []string{"bar", "foo"}, canonicalTokens([]string{"foo", "bar", "foo"}))
	require.Equal(t, []string{"a", "b"}, canonicalTokens([]string{"B", "a"}))
}

func TestSearchFingerprintStableAcrossTokenOrder(t *testing.T) {
	k1 := searchFingerprint([]string{"foo", "bar"}, "com", 50, 1)
	k2 := searchFingerprint([]string{"bar", "foo"}, "com", 50, 1)
	require.Equal(t, k1, k2)
}

func TestSearchFingerprintVariesByParams(t *testing.T) {
	base := searchFingerprint([]string{"foo"}, "com", 50, 1)
	require.NotEqual(t, base, searchFingerprint([]string{"foo"}, "net", 50, 1))
	require.NotEqual(t, base, searchFingerprint([]string{"foo"}, "com", 25, 1))
	require.NotEqual(t, base, searchFingerprint([]string{"foo"}, "com", 50, 2))
}

func TestExactFingerprintCaseInsensitive(t *testing.T) {
	require.Equal(t, exactFingerprint("Example.COM"), exactFingerprint("example.com"))
}
