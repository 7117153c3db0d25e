// Package identity generates and manipulates the persistent commit identity
// carried in a Glu-ID commit message trailer. The trailer survives amends,
// rebases and cherry-picks, which is what lets glu recognize "the same"
// logical commit after git has rewritten its hash.
package identity

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TrailerKey is the commit message trailer carrying the identity
const TrailerKey = "Glu-ID"

// randomBytes is the amount of entropy appended after the timestamp.
// 6 bytes render as 12 hex characters; same-millisecond collisions are
// negligible at ~1/16^12.
const randomBytes = 6

// trailerPattern matches a Glu-ID trailer line. The payload is deliberately
// permissive (any word characters after the glu_ prefix) so commits tagged by
// earlier versions stay recognized.
var trailerPattern = regexp.MustCompile(`(?m)^Glu-ID: (glu_\w+)[ \t]*$`)

// Generate returns a new identity of the form glu_<base36-millis>_<12-hex>.
// The timestamp prefix makes identities lexicographically sortable by
// creation time.
func Generate() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	buf := make([]byte, randomBytes)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("failed to read random bytes: %v", err))
	}

	return fmt.Sprintf("glu_%s_%s", ts, hex.EncodeToString(buf))
}

// HasIdentity reports whether the message carries a Glu-ID trailer
func HasIdentity(message string) bool {
	return trailerPattern.MatchString(message)
}

// ExtractIdentity returns the first identity found in the message.
// The second return value is false when no trailer is present.
func ExtractIdentity(message string) (string, bool) {
	match := trailerPattern.FindStringSubmatch(message)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// Embed appends an identity trailer to the message. It is idempotent: a
// message that already carries an identity is returned unchanged, never
// overwritten. An empty id generates a fresh one.
func Embed(message, id string) string {
	if HasIdentity(message) {
		return message
	}
	if id == "" {
		id = Generate()
	}
	return fmt.Sprintf("%s\n\n%s: %s", strings.TrimSpace(message), TrailerKey, id)
}

// Strip removes the first identity trailer (and its preceding blank line)
// from the message, leaving other trailers untouched. Messages without an
// identity are returned unchanged. Strip inverts Embed for any message that
// had no identity originally.
func Strip(message string) string {
	loc := trailerPattern.FindStringIndex(message)
	if loc == nil {
		return message
	}

	before := message[:loc[0]]
	after := message[loc[1]:]

	// Drop the newline that terminated the trailer line, then the blank
	// line Embed inserted before it.
	before = strings.TrimSuffix(before, "\n")
	before = strings.TrimSuffix(before, "\n")
	if after != "" {
		after = strings.TrimPrefix(after, "\n")
		if after != "" && before != "" {
			before += "\n"
		}
	}

	return before + after
}
