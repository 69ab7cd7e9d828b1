// Package status translates provider-native call and answering-machine
// detection enums into the canonical vocabulary. Lookups are pure and
// case-insensitive; unrecognized input degrades to a documented fallback,
// never an error.
package status

import "strings"

// Canonical call statuses. The set is closed: no other value ever leaves
// this package.
const (
	Queued     = "queued"
	Ringing    = "ringing"
	InProgress = "in-progress"
	Completed  = "completed"
	Failed     = "failed"
	Busy       = "busy"
	NoAnswer   = "no-answer"
	Canceled   = "canceled"
)

// Fallback picks the default for input the table does not recognize.
// The asymmetry is deliberate: an unmapped status at call creation means
// the call has not connected yet, while an unmapped status on a live event
// means the call already has.
type Fallback string

const (
	FallbackCreated Fallback = Queued
	FallbackEvent   Fallback = InProgress
)

var callStatuses = map[string]string{
	"queued":      Queued,
	"ringing":     Ringing,
	"answered":    InProgress,
	"in-progress": InProgress,
	"active":      InProgress,
	"completed":   Completed,
	"ended":       Completed,
	"finished":    Completed,
	"failed":      Failed,
	"error":       Failed,
	"busy":        Busy,
	"no-answer":   NoAnswer,
	"noanswer":    NoAnswer,
	"cancelled":   Canceled,
	"canceled":    Canceled,
}

// eventStatuses maps event names, which some providers send instead of a
// status field, onto the canonical statuses.
var eventStatuses = map[string]string{
	"call.initiated": Queued,
	"call.queued":    Queued,
	"call.ringing":   Ringing,
	"call.answered":  InProgress,
	"call.active":    InProgress,
	"call.completed": Completed,
	"call.ended":     Completed,
	"call.failed":    Failed,
	"call.busy":      Busy,
	"call.no-answer": NoAnswer,
	"call.cancelled": Canceled,
	"call.canceled":  Canceled,
}

// MapCallStatus translates a provider status into the canonical set,
// defaulting to fb when the input is unrecognized or empty.
func MapCallStatus(raw string, fb Fallback) string {
	if s, ok := callStatuses[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return string(fb)
}

// MapEventStatus translates a "call.*" event name into a canonical status.
func MapEventStatus(event string) (string, bool) {
	s, ok := eventStatuses[strings.ToLower(strings.TrimSpace(event))]
	return s, ok
}

// Canonical answered-by classifications.
const (
	AnsweredByHuman   = "human"
	AnsweredByMachine = "machine"
	AnsweredByFax     = "fax"
	AnsweredByUnknown = "unknown"
)

// NOTSURE folds to human on purpose: treating an uncertain detection as a
// machine makes dialers abandon live callers, which costs more than the
// occasional voicemail greeting. Do not "fix" this toward a literal mapping.
var answeredBy = map[string]string{
	"HUMAN":     AnsweredByHuman,
	"PERSON":    AnsweredByHuman,
	"MACHINE":   AnsweredByMachine,
	"VOICEMAIL": AnsweredByMachine,
	"FAX":       AnsweredByFax,
	"NOTSURE":   AnsweredByHuman,
	"NOT_SURE":  AnsweredByHuman,
	"UNKNOWN":   AnsweredByUnknown,
	"UNCLEAR":   AnsweredByUnknown,
}

// MapAnsweredBy translates an answering-machine-detection result. The
// second return is false when the input is absent or unrecognized, in which
// case the field must be omitted rather than defaulted.
func MapAnsweredBy(raw string) (string, bool) {
	s, ok := answeredBy[strings.ToUpper(strings.TrimSpace(raw))]
	return s, ok
}
