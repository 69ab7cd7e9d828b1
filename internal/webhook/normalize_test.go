package webhook

import (
	"strings"
	"testing"
)

func TestNormalizeDTMFEvent(t *testing.T) {
	p := Normalize(map[string]any{
		"event":  "dtmf.received",
		"digit":  "5",
		"callId": "abc",
	})

	if p["Digits"] != "5" {
		t.Fatalf("Digits = %q, want 5", p["Digits"])
	}
	if p["CallSid"] == "" {
		t.Fatalf("expected a CallSid")
	}
	if _, ok := p["SpeechResult"]; ok {
		t.Fatalf("SpeechResult must not appear on a dtmf event")
	}
}

func TestNormalizeCanonicalPassthrough(t *testing.T) {
	p := Normalize(map[string]any{
		"CallSid": "CA123",
		"From":    "+15551234567",
	})

	want := Params{
		"CallSid":    "CA123",
		"From":       "+15551234567",
		"ApiVersion": "2010-04-01",
		"Direction":  "outbound-api",
	}
	if len(p) != len(want) {
		t.Fatalf("got %d params %v, want %d", len(p), p, len(want))
	}
	for k, v := range want {
		if p[k] != v {
			t.Fatalf("%s = %q, want %q", k, p[k], v)
		}
	}
}

func TestNormalizeKeyFallbacks(t *testing.T) {
	p := Normalize(map[string]any{
		"event":     "call.answered",
		"id":        "prov-12345678",
		"caller_id": "5550001111",
		"called":    "15552223333",
	})

	if got := p["CallSid"]; !strings.HasPrefix(got, "CA") {
		t.Fatalf("CallSid = %q, want CA prefix", got)
	}
	if p["From"] != "+15550001111" {
		t.Fatalf("From = %q", p["From"])
	}
	if p["To"] != "+15552223333" {
		t.Fatalf("To = %q", p["To"])
	}
	if p["CallStatus"] != "in-progress" {
		t.Fatalf("CallStatus = %q", p["CallStatus"])
	}
}

func TestNormalizeEventStatusBeatsRawStatus(t *testing.T) {
	p := Normalize(map[string]any{
		"event":  "call.ringing",
		"status": "active",
		"callId": "CA1",
	})
	if p["CallStatus"] != "ringing" {
		t.Fatalf("CallStatus = %q, want ringing", p["CallStatus"])
	}
}

func TestNormalizeUnknownStatusDefaultsInProgress(t *testing.T) {
	p := Normalize(map[string]any{"callId": "CA1", "status": "warbling"})
	if p["CallStatus"] != "in-progress" {
		t.Fatalf("CallStatus = %q, want in-progress", p["CallStatus"])
	}
}

func TestNormalizeSynthesizesCallSid(t *testing.T) {
	p := Normalize(map[string]any{"status": "ringing"})
	sid := p["CallSid"]
	if !strings.HasPrefix(sid, "CA") || len(sid) != 34 {
		t.Fatalf("synthesized CallSid = %q", sid)
	}
}

func TestNormalizeOmitsEmptyFields(t *testing.T) {
	p := Normalize(map[string]any{"callId": "CA1", "callerName": ""})
	for k, v := range p {
		if v == "" {
			t.Fatalf("field %s emitted with empty value", k)
		}
	}
	if _, ok := p["CallerName"]; ok {
		t.Fatalf("empty CallerName must be omitted")
	}
}

func TestNormalizeGatherSpeech(t *testing.T) {
	p := Normalize(map[string]any{
		"event":        "gather.completed",
		"callId":       "CA1",
		"speechResult": "main menu",
		"confidence":   0.83,
	})
	if p["SpeechResult"] != "main menu" {
		t.Fatalf("SpeechResult = %q", p["SpeechResult"])
	}
	if p["Confidence"] != "0.83" {
		t.Fatalf("Confidence = %q", p["Confidence"])
	}
}

func TestNormalizeGatherTimeout(t *testing.T) {
	p := Normalize(map[string]any{
		"event":  "gather.completed",
		"callId": "CA1",
		"result": "timeout",
	})
	if p["Digits"] != "TIMEOUT" {
		t.Fatalf("Digits = %q, want TIMEOUT", p["Digits"])
	}
}

func TestNormalizeRecordingEvent(t *testing.T) {
	p := Normalize(map[string]any{
		"event":             "recording.completed",
		"callId":            "CA1",
		"recordingId":       "RE1",
		"recordingUrl":      "https://media.example.com/RE1.wav",
		"recordingDuration": "42",
	})
	if p["RecordingSid"] != "RE1" || p["RecordingUrl"] != "https://media.example.com/RE1.wav" {
		t.Fatalf("unexpected recording fields: %v", p)
	}
	if p["RecordingDuration"] != "42" || p["RecordingStatus"] != "completed" {
		t.Fatalf("unexpected recording fields: %v", p)
	}
	if p["RecordingSource"] != "OutboundAPI" {
		t.Fatalf("RecordingSource = %q", p["RecordingSource"])
	}
}

func TestNormalizeRecordingFieldsAbsentOtherwise(t *testing.T) {
	p := Normalize(map[string]any{"event": "call.answered", "callId": "CA1"})
	for _, k := range []string{"RecordingSid", "RecordingUrl", "RecordingStatus", "DialCallStatus", "SipCallId"} {
		if _, ok := p[k]; ok {
			t.Fatalf("%s must not appear on a plain call event", k)
		}
	}
}

func TestNormalizeDialEvent(t *testing.T) {
	p := Normalize(map[string]any{
		"event":       "dial.completed",
		"callId":      "CA1",
		"dialCallSid": "CA2",
		"dialStatus":  "answered",
		"muted":       false,
	})
	if p["DialCallSid"] != "CA2" || p["DialCallStatus"] != "in-progress" {
		t.Fatalf("unexpected dial fields: %v", p)
	}
	if _, ok := p["Muted"]; ok {
		t.Fatalf("false Muted must be omitted")
	}
}

func TestNormalizeSIPSuccessCodeOmitted(t *testing.T) {
	p := Normalize(map[string]any{
		"callId":          "CA1",
		"sipCallId":       "sip-abc",
		"sipResponseCode": 200,
	})
	if p["SipCallId"] != "sip-abc" {
		t.Fatalf("SipCallId = %q", p["SipCallId"])
	}
	if _, ok := p["SipResponseCode"]; ok {
		t.Fatalf("success response code must be omitted")
	}

	p = Normalize(map[string]any{"callId": "CA1", "sipCallId": "sip-abc", "sipResponseCode": 486})
	if p["SipResponseCode"] != "486" {
		t.Fatalf("SipResponseCode = %q", p["SipResponseCode"])
	}
}

func TestNormalizeProgressCallback(t *testing.T) {
	p := Normalize(map[string]any{
		"event":     "call.completed",
		"callId":    "CA1",
		"duration":  "125",
		"timestamp": float64(1281930301),
	})
	if p["CallbackSource"] != "call-progress-events" {
		t.Fatalf("CallbackSource = %q", p["CallbackSource"])
	}
	if p["SequenceNumber"] != "0" {
		t.Fatalf("SequenceNumber = %q", p["SequenceNumber"])
	}
	if p["CallDuration"] != "125" || p["Duration"] != "2" {
		t.Fatalf("durations = %q / %q", p["CallDuration"], p["Duration"])
	}
	if p["Timestamp"] != "Mon, 16 Aug 2010 03:45:01 +0000" {
		t.Fatalf("Timestamp = %q", p["Timestamp"])
	}
}

func TestNormalizeGeographyDefaults(t *testing.T) {
	p := Normalize(map[string]any{
		"callId":    "CA1",
		"geography": map[string]any{"fromCity": "AUSTIN", "fromState": "TX"},
	})
	if p["FromCity"] != "AUSTIN" || p["FromState"] != "TX" {
		t.Fatalf("unexpected geo fields: %v", p)
	}
	if p["FromCountry"] != "US" || p["ToCountry"] != "US" {
		t.Fatalf("expected US country defaults, got %v", p)
	}
}

func TestNormalizeAnsweredByFolding(t *testing.T) {
	p := Normalize(map[string]any{
		"callId": "CA1",
		"amd":    map[string]any{"status": "NOTSURE", "confidence": 0.4},
	})
	if p["AnsweredBy"] != "human" {
		t.Fatalf("AnsweredBy = %q, want human", p["AnsweredBy"])
	}
	if p["MachineDetectionConfidence"] != "0.4" {
		t.Fatalf("MachineDetectionConfidence = %q", p["MachineDetectionConfidence"])
	}
}

func TestNormalizeNeverPanics(t *testing.T) {
	inputs := []map[string]any{
		nil,
		{},
		{"event": 42, "callId": []any{"x"}},
		{"amd": "not-a-map", "geography": 9},
		{"duration": "not-a-number"},
	}
	for i, in := range inputs {
		p := Normalize(in)
		if p == nil {
			t.Fatalf("case %d: nil params", i)
		}
	}
}
