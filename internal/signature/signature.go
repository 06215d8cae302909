package signature

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Algorithm selects how the canonical parameter string is digested.
// HMAC-SHA256 is the house standard; MD5 exists only because some local
// gateways mandate it in their merchant API contract.
type Algorithm string

const (
	AlgHMACSHA256 Algorithm = "hmac-sha256"
	AlgMD5        Algorithm = "md5"
	// AlgMD5Upper is MD5 with uppercase hex output, required by PayHere.
	AlgMD5Upper Algorithm = "md5-upper"
)

// Keys that carry the digest itself and must never be part of the
// signed material.
var excludedKeys = map[string]struct{}{
	"hash":      {},
	"signature": {},
	"md5sig":    {},
}

// Canonicalize renders params as "k1=v1&k2=v2..." with keys in
// lexicographic order, excluding the digest-bearing keys.
func Canonicalize(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if _, skip := excludedKeys[k]; skip {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// Sign produces a hex digest over the canonical form of params with the
// shared secret appended. The secret itself is never transmitted.
func Sign(params map[string]string, secret string, alg Algorithm) string {
	payload := Canonicalize(params) + secret

	switch alg {
	case AlgMD5, AlgMD5Upper:
		sum := md5.Sum([]byte(payload))
		digest := hex.EncodeToString(sum[:])
		if alg == AlgMD5Upper {
			return strings.ToUpper(digest)
		}
		return digest
	default:
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(payload))
		return hex.EncodeToString(mac.Sum(nil))
	}
}

// Verify recomputes the digest and compares it against the one the
// provider supplied. Hex case differences are ignored since providers
// disagree on casing.
func Verify(params map[string]string, secret string, alg Algorithm, provided string) bool {
	if provided == "" {
		return false
	}
	expected := Sign(params, secret, alg)
	return strings.EqualFold(expected, provided)
}
