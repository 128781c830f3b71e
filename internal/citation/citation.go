// Package citation recovers quoted-message text from the binary metadata blob
// attached to a message.
//
// The blob is protobuf wire format. Only the first top-level field number 1
// with a length-delimited payload matters; every other field is skipped by
// walking its wire type. A payload is accepted as a citation when it is valid
// UTF-8 and longer than MinQuoteRunes characters. Nothing else about the text
// is inspected.
package citation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/soyeahso/chatexport/internal/domain"
)

// QuoteField is the field number that carries quoted text.
const QuoteField protowire.Number = 1

// MinQuoteRunes is the length a quote must exceed to be kept.
const MinQuoteRunes = 10

// Decode extracts the citation from blob. It reports false for an absent,
// truncated or malformed blob and for payloads that fail validation.
func Decode(blob []byte) (domain.Citation, bool) {
	c := cursor{buf: blob}
	for {
		f, ok := c.next()
		if !ok {
			return domain.Citation{}, false
		}
		if f.num == QuoteField && f.typ == protowire.BytesType {
			return accept(f.payload)
		}
	}
}

func accept(payload []byte) (domain.Citation, bool) {
	if !utf8.Valid(payload) {
		return domain.Citation{}, false
	}
	if utf8.RuneCount(payload) <= MinQuoteRunes {
		return domain.Citation{}, false
	}
	return domain.Citation{Text: string(payload)}, true
}

// forwardHash is the shape of the opaque id a forwarded message carries in
// place of quoted text: an alphanumeric head, a quote or backtick, and a tail
// that may also use braces.
var forwardHash = regexp.MustCompile("^[A-Za-z0-9]{2,24}['`][A-Za-z0-9{}]{2,48}$")

// ForwardID reports whether text is a forward id rather than a quote and
// returns the id stripped to its significant characters. The check is
// heuristic, so callers only apply it to messages flagged as forwarded.
func ForwardID(text string) (string, bool) {
	var b strings.Builder
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '\'', r == '`', r == '{', r == '}':
			b.WriteRune(r)
		}
	}
	id := b.String()
	if len(id) <= MinQuoteRunes || !forwardHash.MatchString(id) {
		return "", false
	}
	marked := strings.ContainsFunc(id, func(r rune) bool {
		return (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || r == '{' || r == '}'
	})
	if !marked {
		return "", false
	}
	return id, true
}
