package phone

import (
	"strings"

	"github.com/google/uuid"
)

// Call SIDs on the wire are "CA" followed by 32 characters.
const callSIDLength = 34

const callSIDPrefix = "CA"

// ToE164 normalizes a raw phone number to E.164.
//
// Everything but digits is stripped (a leading "+" survives). Bare 10-digit
// numbers are assumed to be NANP and get "+1"; 11 digits starting with "1"
// get "+"; longer bare numbers are treated as international and get "+".
// Anything already carrying "+" passes through unchanged after stripping,
// which makes the function idempotent.
func ToE164(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteByte(byte(r))
		} else if r == '+' && b.Len() == 0 {
			b.WriteByte('+')
		}
	}
	clean := b.String()
	if clean == "" || strings.HasPrefix(clean, "+") {
		return clean
	}
	switch {
	case len(clean) == 11 && clean[0] == '1':
		return "+" + clean
	case len(clean) == 10:
		return "+1" + clean
	case len(clean) > 10:
		return "+" + clean
	}
	return clean
}

// ToDisplay renders a NANP E.164 number in human-readable form,
// e.g. "+15551234567" -> "+1 (555) 123-4567". Anything that is not
// exactly "+1" plus ten digits passes through unchanged.
func ToDisplay(e164 string) string {
	if len(e164) != 12 || !strings.HasPrefix(e164, "+1") {
		return e164
	}
	for _, r := range e164[2:] {
		if r < '0' || r > '9' {
			return e164
		}
	}
	return "+1 (" + e164[2:5] + ") " + e164[5:8] + "-" + e164[8:]
}

// NewCallSID synthesizes a fresh call SID. Uniqueness is best effort:
// UUIDv7 carries a timestamp plus randomness, but collisions are not
// detected anywhere downstream.
func NewCallSID() string {
	u, err := uuid.NewV7()
	if err != nil {
		u = uuid.New()
	}
	return callSIDPrefix + strings.ReplaceAll(u.String(), "-", "")
}

// EnsureCallSID coerces a provider-native call identifier into SID shape.
// An empty input synthesizes a new SID. Identifiers already carrying the
// "CA" prefix pass through; short foreign ids are prefixed and padded to
// the fixed length so downstream locator math never sees a ragged SID.
func EnsureCallSID(raw string) string {
	if raw == "" {
		return NewCallSID()
	}
	if strings.HasPrefix(raw, callSIDPrefix) {
		return raw
	}
	sid := callSIDPrefix + raw
	if len(raw) < 10 && len(sid) < callSIDLength {
		sid += strings.Repeat("x", callSIDLength-len(sid))
	}
	return sid
}
