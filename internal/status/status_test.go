package status

import "testing"

func TestMapCallStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"answered", InProgress},
		{"ACTIVE", InProgress},
		{"ended", Completed},
		{"finished", Completed},
		{"error", Failed},
		{"cancelled", Canceled},
		{"noanswer", NoAnswer},
		{"busy", Busy},
		{"ringing", Ringing},
		{" queued ", Queued},
	}
	for _, tc := range cases {
		if got := MapCallStatus(tc.raw, FallbackEvent); got != tc.want {
			t.Fatalf("MapCallStatus(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestMapCallStatusFallbacks(t *testing.T) {
	if got := MapCallStatus("warp-speed", FallbackCreated); got != Queued {
		t.Fatalf("creation fallback = %q, want %q", got, Queued)
	}
	if got := MapCallStatus("warp-speed", FallbackEvent); got != InProgress {
		t.Fatalf("event fallback = %q, want %q", got, InProgress)
	}
	// NOTSURE is an AMD result, not a call status; the status table must
	// not recognize it.
	if got := MapCallStatus("NOTSURE", FallbackCreated); got != Queued {
		t.Fatalf("expected NOTSURE to hit the fallback, got %q", got)
	}
}

func TestMapEventStatus(t *testing.T) {
	if s, ok := MapEventStatus("call.answered"); !ok || s != InProgress {
		t.Fatalf("call.answered -> %q, %v", s, ok)
	}
	if s, ok := MapEventStatus("call.cancelled"); !ok || s != Canceled {
		t.Fatalf("call.cancelled -> %q, %v", s, ok)
	}
	if _, ok := MapEventStatus("dtmf.received"); ok {
		t.Fatalf("expected dtmf.received to be unmapped")
	}
}

func TestMapAnsweredBy(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"HUMAN", AnsweredByHuman},
		{"human", AnsweredByHuman},
		{"PERSON", AnsweredByHuman},
		{"MACHINE", AnsweredByMachine},
		{"VOICEMAIL", AnsweredByMachine},
		{"FAX", AnsweredByFax},
		{"NOTSURE", AnsweredByHuman},
		{"NOT_SURE", AnsweredByHuman},
		{"UNKNOWN", AnsweredByUnknown},
		{"UNCLEAR", AnsweredByUnknown},
	}
	for _, tc := range cases {
		got, ok := MapAnsweredBy(tc.raw)
		if !ok || got != tc.want {
			t.Fatalf("MapAnsweredBy(%q) = %q, %v, want %q", tc.raw, got, ok, tc.want)
		}
	}
	if _, ok := MapAnsweredBy(""); ok {
		t.Fatalf("expected absent result for empty input")
	}
	if _, ok := MapAnsweredBy("robot"); ok {
		t.Fatalf("expected absent result for unrecognized input")
	}
}
