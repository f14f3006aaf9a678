package normalize

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/spaolacci/murmur3"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// based on: https://stackoverflow.com/a/48769624, with no trailing period allowed
	urlPattern = regexp.MustCompile(`(?:(?:https?|ftp)://)?[\w/\-?=%.]+\.[\w/\-&?=%.]*[\w/\-&?=%]+`)

	// run of @mentions (with optional separators) at the start of the text
	leadingMentionPattern = regexp.MustCompile(`^(?:@[\w.]+[\s,]*)+`)

	// platform-added trailing attribution, eg "via @someapp" or "via SomeApp"
	viaBoilerplatePattern = regexp.MustCompile(`(?i)(?:[\s|-]*\bvia\s+@?[\w.]+\s*)+$`)

	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// Canonicalizes post text for duplicate comparison. Deterministic, total, and
// idempotent; empty or all-noise input yields the empty string, which is a
// legal normalized value.
//
// Duplicate campaigns frequently vary only in trailing links, mention
// ordering, or unicode representation, so all of those are stripped or folded
// before comparison: lower-case, URL and leading-mention removal, trailing
// "via ..." attribution removal, unicode normalization (NFD, strip combining
// marks, NFC), and whitespace collapse. The result is only ever used for
// comparison, never shown to a user.
func Normalize(text string) string {
	// this transform chain needs to be re-defined per call to prevent a race condition
	normFunc := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out := leadingMentionPattern.ReplaceAllString(text, " ")
	out = urlPattern.ReplaceAllString(out, " ")
	out = viaBoilerplatePattern.ReplaceAllString(out, " ")
	// stripping a URL or attribution can expose a mention run at the head of
	// the text, so the mention strip runs again on the trimmed intermediate
	out = leadingMentionPattern.ReplaceAllString(strings.TrimSpace(out), " ")
	out = strings.ToLower(out)
	folded, _, err := transform.String(normFunc, out)
	if err == nil {
		out = folded
	}
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(out, " "))
}

// Splits normalized text into comparison tokens, dropping punctuation. Not
// intended for display.
func Tokenize(text string) []string {
	return strings.FieldsFunc(Normalize(text), func(c rune) bool {
		return !unicode.IsLetter(c) && !unicode.IsNumber(c)
	})
}

// returns a fast, compact hash of a string
//
// current implementation uses murmur3, default seed, and hex encoding
func HashOfString(s string) string {
	val := murmur3.Sum64([]byte(s))
	return fmt.Sprintf("%016x", val)
}
