package service

import (
	"crypto/rand"
	"strings"
)

// Referral code prefixes. Link codes share the member prefix, so the link
// prefix must be checked first when classifying.
const (
	CodePrefix = "AURORA-"
	LinkPrefix = "AURORA-LINK-"
)

// codeAlphabet excludes ambiguous characters (0/O, 1/I/L)
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeSuffixLen = 6

// CodeKind classifies a raw referral code string
type CodeKind int

const (
	// CodeMalformed neither a sponsor code nor a link code
	CodeMalformed CodeKind = iota
	// CodeSponsor a member's own referral code (AURORA-XXXXXX)
	CodeSponsor
	// CodeLink a shareable link code (AURORA-LINK-XXXXXX)
	CodeLink
)

// ClassifyCode decides what kind of code a raw string is. Pure string
// inspection, no I/O: malformed input must be rejected before any
// server-side validation happens.
func ClassifyCode(raw string) CodeKind {
	code := strings.ToUpper(strings.TrimSpace(raw))

	if strings.HasPrefix(code, LinkPrefix) {
		if wellFormedSuffix(strings.TrimPrefix(code, LinkPrefix)) {
			return CodeLink
		}
		return CodeMalformed
	}
	if strings.HasPrefix(code, CodePrefix) {
		if wellFormedSuffix(strings.TrimPrefix(code, CodePrefix)) {
			return CodeSponsor
		}
		return CodeMalformed
	}
	return CodeMalformed
}

// NormalizeCode uppercases and trims a raw code for lookups
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func wellFormedSuffix(suffix string) bool {
	if len(suffix) < 4 || len(suffix) > 12 {
		return false
	}
	for _, c := range suffix {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// GenerateMemberCode creates a fresh member referral code (AURORA-XXXXXX)
func GenerateMemberCode() string {
	return CodePrefix + randomSuffix(codeSuffixLen)
}

// GenerateLinkCode creates a fresh shareable link code (AURORA-LINK-XXXXXX)
func GenerateLinkCode() string {
	return LinkPrefix + randomSuffix(codeSuffixLen)
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure means the process is in a bad state
		panic(err)
	}
	var sb strings.Builder
	for _, b := range buf {
		sb.WriteByte(codeAlphabet[int(b)%len(codeAlphabet)])
	}
	return sb.String()
}
