// Package webhook turns provider-native event payloads into the canonical
// flat parameter vocabulary and authenticates their origin.
package webhook

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"callbridge/internal/phone"
	"callbridge/internal/status"
)

// Params is the canonical flat parameter set. Values are always strings;
// absent fields are omitted entirely, never present with an empty value.
type Params map[string]string

const (
	apiVersion       = "2010-04-01"
	defaultDirection = "outbound-api"
)

// Normalize converts an arbitrarily-shaped event payload into canonical
// parameters. It is total: malformed fields are dropped, never raised,
// and a call identifier is synthesized when none can be extracted.
func Normalize(data map[string]any) Params {
	if data == nil {
		return Params{}
	}

	// Already canonical: CallSid spelled canonically and no provider event
	// marker. Fill the two required defaults and pass the rest through.
	if _, ok := data["CallSid"]; ok {
		if _, hasEvent := data["event"]; !hasEvent {
			return enhance(data)
		}
	}

	p := Params{}
	set := func(key, value string) {
		if value != "" {
			p[key] = value
		}
	}

	set("CallSid", extractCallSID(data))
	set("AccountSid", orDefault(lookup(data, "accountSid", "AccountSid"), "AC"+strings.Repeat("x", 32)))
	set("ApiVersion", apiVersion)
	set("From", phone.ToE164(lookup(data, "from", "From", "callerId", "caller_id", "caller", "source")))
	set("To", phone.ToE164(lookup(data, "to", "To", "number", "called", "destination", "target")))
	set("CallStatus", extractStatus(data))
	set("Direction", orDefault(lookup(data, "Direction", "direction"), defaultDirection))

	seconds := extractSeconds(data)
	set("CallDuration", seconds)
	if seconds != "" {
		if n, err := strconv.Atoi(seconds); err == nil {
			set("Duration", strconv.Itoa(n/60))
		}
	}

	set("ForwardedFrom", phone.ToE164(lookup(data, "forwardedFrom", "ForwardedFrom")))
	set("CallerName", lookup(data, "callerName", "CallerName"))
	set("ParentCallSid", lookup(data, "parentCallSid", "ParentCallSid"))
	set("CallToken", lookup(data, "callToken", "CallToken"))

	addGeography(p, data)
	addAnsweredBy(p, data)
	addEventFields(p, data)
	addProgressFields(p, data)
	addRecordingFields(p, data)
	addDialFields(p, data)
	addSIPFields(p, data)
	addErrorFields(p, data)
	return p
}

// enhance finishes a payload that already speaks the canonical vocabulary.
func enhance(data map[string]any) Params {
	p := make(Params, len(data)+2)
	for k, v := range data {
		if s := stringify(v); s != "" {
			p[k] = s
		}
	}
	if p["ApiVersion"] == "" {
		p["ApiVersion"] = apiVersion
	}
	if p["Direction"] == "" {
		p["Direction"] = defaultDirection
	}
	return p
}

func extractCallSID(data map[string]any) string {
	if id := lookup(data, "callId", "CallSid", "call_sid", "sid", "id"); id != "" {
		return phone.EnsureCallSID(id)
	}
	return phone.NewCallSID()
}

func extractStatus(data map[string]any) string {
	if event := eventType(data); event != "" {
		if s, ok := status.MapEventStatus(event); ok {
			return s
		}
	}
	raw := lookup(data, "status", "CallStatus", "call_status", "state")
	return status.MapCallStatus(raw, status.FallbackEvent)
}

func extractSeconds(data map[string]any) string {
	raw := lookup(data, "duration", "CallDuration", "call_duration", "seconds")
	if raw == "" {
		return ""
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ""
	}
	return strconv.Itoa(int(f))
}

func addGeography(p Params, data map[string]any) {
	geo, _ := data["geography"].(map[string]any)
	if geo == nil {
		geo, _ = data["geo"].(map[string]any)
	}
	field := func(lower, canonical string) string {
		if geo != nil {
			if v := stringify(geo[lower]); v != "" {
				return v
			}
		}
		return lookup(data, lower, canonical)
	}
	for _, side := range []string{"from", "to"} {
		title := strings.ToUpper(side[:1]) + side[1:]
		setNonEmpty(p, title+"City", field(side+"City", title+"City"))
		setNonEmpty(p, title+"State", field(side+"State", title+"State"))
		setNonEmpty(p, title+"Zip", field(side+"Zip", title+"Zip"))
		p[title+"Country"] = orDefault(field(side+"Country", title+"Country"), "US")
	}
}

func addAnsweredBy(p Params, data map[string]any) {
	if by := lookup(data, "AnsweredBy", "answeredBy", "answered_by"); by != "" {
		p["AnsweredBy"] = by
		return
	}
	amd, _ := data["amd"].(map[string]any)
	if amd == nil {
		return
	}
	by, ok := status.MapAnsweredBy(stringify(amd["status"]))
	if !ok {
		return
	}
	p["AnsweredBy"] = by
	if conf := stringify(firstOf(amd, "confidence", "score")); conf != "" {
		p["MachineDetectionConfidence"] = conf
	}
}

func addEventFields(p Params, data map[string]any) {
	event := eventType(data)
	switch {
	case strings.Contains(event, "dtmf") || strings.Contains(event, "digit"):
		setNonEmpty(p, "Digits", lookup(data, "digit", "digits", "Digits", "dtmf"))
	case strings.Contains(event, "gather"):
		if digits := lookup(data, "digits", "Digits", "input", "result"); digits != "" {
			if strings.EqualFold(digits, "timeout") {
				digits = "TIMEOUT"
			}
			p["Digits"] = digits
		}
		if speech := lookup(data, "speechResult", "SpeechResult", "speech_result", "transcript"); speech != "" {
			p["SpeechResult"] = speech
			setNonEmpty(p, "Confidence", lookup(data, "confidence", "Confidence", "speech_confidence"))
		}
	default:
		setNonEmpty(p, "Digits", lookup(data, "Digits", "digits", "digit", "input"))
	}
}

// addProgressFields marks call-progress notifications with the callback
// bookkeeping fields the wire format expects.
func addProgressFields(p Params, data map[string]any) {
	event := eventType(data)
	for _, marker := range []string{"initiated", "ringing", "answered", "completed"} {
		if strings.Contains(event, marker) {
			p["CallbackSource"] = "call-progress-events"
			p["SequenceNumber"] = orDefault(lookup(data, "sequenceNumber", "sequence"), "0")
			if ts := lookup(data, "timestamp", "Timestamp", "time", "event_time"); ts != "" {
				p["Timestamp"] = rfc2822(ts)
			}
			return
		}
	}
}

func addRecordingFields(p Params, data map[string]any) {
	event := eventType(data)
	if !strings.Contains(event, "recording") && lookup(data, "recordingId", "RecordingSid") == "" {
		return
	}
	setNonEmpty(p, "RecordingSid", lookup(data, "recordingId", "RecordingSid", "recording_sid"))
	setNonEmpty(p, "RecordingUrl", lookup(data, "recordingUrl", "RecordingUrl", "recording_url", "url"))
	if d := lookup(data, "recordingDuration", "RecordingDuration", "recording_duration"); d != "" && d != "0" {
		p["RecordingDuration"] = d
	}
	p["RecordingStatus"] = "completed"
	p["RecordingChannels"] = orDefault(lookup(data, "channels", "RecordingChannels"), "1")
	p["RecordingSource"] = "OutboundAPI"
	p["RecordingTrack"] = orDefault(lookup(data, "track", "RecordingTrack"), "both")
	if ts := lookup(data, "recordingStartTime", "RecordingStartTime", "recording_start_time"); ts != "" {
		p["RecordingStartTime"] = rfc2822(ts)
	}
}

func addDialFields(p Params, data map[string]any) {
	event := eventType(data)
	if !strings.Contains(event, "dial") && !strings.Contains(event, "conference") {
		return
	}
	setNonEmpty(p, "DialCallSid", lookup(data, "dialCallSid", "DialCallSid", "dial_call_sid"))
	p["DialCallStatus"] = status.MapCallStatus(lookup(data, "dialStatus", "DialCallStatus"), status.FallbackEvent)
	if d := lookup(data, "dialDuration", "DialCallDuration"); d != "" && d != "0" {
		p["DialCallDuration"] = d
	}
	setNonEmpty(p, "ConferenceSid", lookup(data, "conferenceSid", "ConferenceSid", "conference_sid"))
	setNonEmpty(p, "FriendlyName", lookup(data, "conferenceName", "FriendlyName", "conference_name"))
	if truthy(data["muted"]) {
		p["Muted"] = "true"
	}
	if truthy(data["hold"]) {
		p["Hold"] = "true"
	}
}

func addSIPFields(p Params, data map[string]any) {
	if lookup(data, "sipCallId", "sipResponseCode") == "" && !strings.Contains(eventType(data), "sip") {
		return
	}
	setNonEmpty(p, "SipCallId", lookup(data, "sipCallId", "SipCallId", "sip_call_id"))
	// 200 is the unremarkable success code; only failures are worth emitting.
	if code := lookup(data, "sipResponseCode", "SipResponseCode"); code != "" && code != "200" {
		p["SipResponseCode"] = code
	}
	setNonEmpty(p, "SipHeader_User_Agent", lookup(data, "sipUserAgent", "SipHeader_User_Agent", "sip_user_agent"))
	setNonEmpty(p, "SipHeader_Contact", lookup(data, "sipContact", "SipHeader_Contact", "sip_contact"))
}

func addErrorFields(p Params, data map[string]any) {
	setNonEmpty(p, "ErrorCode", lookup(data, "errorCode", "ErrorCode"))
	setNonEmpty(p, "ErrorMessage", lookup(data, "errorMessage", "ErrorMessage"))
	setNonEmpty(p, "QueueSid", lookup(data, "queueSid", "QueueSid"))
	setNonEmpty(p, "QueueName", lookup(data, "queueName", "QueueName"))
	setNonEmpty(p, "ApplicationSid", lookup(data, "applicationSid", "ApplicationSid"))
}

func eventType(data map[string]any) string {
	return strings.ToLower(lookup(data, "event", "Event"))
}

// lookup walks the fallback key chain and returns the first non-empty value.
func lookup(data map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := stringify(data[k]); s != "" {
			return s
		}
	}
	return ""
}

func firstOf(data map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := data[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func setNonEmpty(p Params, key, value string) {
	if value != "" {
		p[key] = value
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t != "" && t != "false" && t != "0"
	case float64:
		return t != 0
	default:
		return false
	}
}

// rfc2822 renders a timestamp in the "Mon, 02 Jan 2006 15:04:05 +0000"
// shape the wire format uses. Unparseable input falls back to now.
func rfc2822(raw string) string {
	const layout = "Mon, 02 Jan 2006 15:04:05 -0700"
	if epoch, err := strconv.ParseFloat(raw, 64); err == nil {
		return time.Unix(int64(epoch), 0).UTC().Format(layout)
	}
	for _, l := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(l, raw); err == nil {
			return ts.UTC().Format(layout)
		}
	}
	return time.Now().UTC().Format(layout)
}
