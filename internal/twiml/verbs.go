package twiml

import "strings"

// Bool is a convenience for the tri-state boolean attributes, which are
// emitted only when explicitly set.
func Bool(v bool) *bool { return &v }

// SayParams configures the Say verb. Zero values mean "use the documented
// default and omit the attribute".
type SayParams struct {
	Voice    string
	Language string
	Loop     int // default 1
}

// Say speaks message via text-to-speech. Nil params uses all defaults.
func (r *Response) Say(message string, params *SayParams) *Response {
	r.appendSay(r.root, message, params)
	return r
}

func (r *Response) appendSay(parent *node, message string, params *SayParams) {
	n := parent.child("Say")
	if params != nil {
		if params.Voice != "" {
			n.set("voice", params.Voice)
		}
		if params.Language != "" {
			n.set("language", params.Language)
		}
		if params.Loop > 0 && params.Loop != 1 {
			n.setInt("loop", params.Loop)
		}
	}
	n.text = message
}

// PlayParams configures the Play verb.
type PlayParams struct {
	Loop   int // default 1
	Digits string
}

// Play plays an audio URL, or sends DTMF digits when Digits is set and the
// URL is empty. A Play with neither is a programmer error.
func (r *Response) Play(url string, params *PlayParams) *Response {
	r.appendPlay(r.root, url, params)
	return r
}

func (r *Response) appendPlay(parent *node, url string, params *PlayParams) {
	digits := ""
	if params != nil {
		digits = params.Digits
	}
	if strings.TrimSpace(url) == "" && digits == "" {
		if _, err := requireContent("Play url or digits", ""); err != nil {
			r.fail(err)
		}
		return
	}
	n := parent.child("Play")
	if params != nil {
		if params.Loop > 0 && params.Loop != 1 {
			n.setInt("loop", params.Loop)
		}
		if params.Digits != "" {
			n.set("digits", params.Digits)
		}
	}
	n.text = url
}

func (r *Response) appendPause(parent *node, seconds int) {
	n := parent.child("Pause")
	if seconds > 0 && seconds != 1 {
		n.setInt("length", seconds)
	}
}

// Pause inserts seconds of silence. The default length of 1 is omitted
// from the wire form.
func (r *Response) Pause(seconds int) *Response {
	r.appendPause(r.root, seconds)
	return r
}

// GatherParams configures the Gather verb. Documented defaults, omitted
// when matched: Input "dtmf", Method "POST", Timeout 5, Language "en-US",
// SpeechTimeout "auto", PartialResultCallbackMethod "POST".
type GatherParams struct {
	Input                       string
	Action                      string
	Method                      string
	Timeout                     int
	FinishOnKey                 string
	NumDigits                   int
	PartialResultCallback       string
	PartialResultCallbackMethod string
	Language                    string
	Hints                       string
	BargeIn                     *bool
	Debug                       *bool
	ActionOnEmptyResult         *bool
	SpeechTimeout               string
	Enhanced                    *bool
	SpeechModel                 string
	ProfanityFilter             *bool
}

// Gather collects DTMF or speech input. The returned builder exposes the
// verbs legal inside Gather: Say, Play and Pause. Gathers do not nest.
func (r *Response) Gather(params *GatherParams) *Gather {
	n := r.root.child("Gather")
	if params != nil {
		if params.Input != "" && params.Input != "dtmf" {
			n.set("input", params.Input)
		}
		if params.Action != "" {
			n.set("action", params.Action)
		}
		if params.Method != "" && params.Method != "POST" {
			n.set("method", params.Method)
		}
		if params.Timeout > 0 && params.Timeout != 5 {
			n.setInt("timeout", params.Timeout)
		}
		if params.FinishOnKey != "" {
			n.set("finishOnKey", params.FinishOnKey)
		}
		if params.NumDigits > 0 {
			n.setInt("numDigits", params.NumDigits)
		}
		if params.PartialResultCallback != "" {
			n.set("partialResultCallback", params.PartialResultCallback)
		}
		if params.PartialResultCallbackMethod != "" && params.PartialResultCallbackMethod != "POST" {
			n.set("partialResultCallbackMethod", params.PartialResultCallbackMethod)
		}
		if params.Language != "" && params.Language != "en-US" {
			n.set("language", params.Language)
		}
		if params.Hints != "" {
			n.set("hints", params.Hints)
		}
		if params.BargeIn != nil {
			n.setBool("bargeIn", *params.BargeIn)
		}
		if params.Debug != nil {
			n.setBool("debug", *params.Debug)
		}
		if params.ActionOnEmptyResult != nil {
			n.setBool("actionOnEmptyResult", *params.ActionOnEmptyResult)
		}
		if params.SpeechTimeout != "" && params.SpeechTimeout != "auto" {
			n.set("speechTimeout", params.SpeechTimeout)
		}
		if params.Enhanced != nil {
			n.setBool("enhanced", *params.Enhanced)
		}
		if params.SpeechModel != "" {
			n.set("speechModel", params.SpeechModel)
		}
		if params.ProfanityFilter != nil {
			n.setBool("profanityFilter", *params.ProfanityFilter)
		}
	}
	return &Gather{resp: r, n: n}
}

// RecordParams configures the Record verb. Documented defaults:
// Method "POST", Timeout 5, FinishOnKey "1234567890*#", MaxLength 3600,
// PlayBeep true, Trim "trim-silence".
type RecordParams struct {
	Action                        string
	Method                        string
	Timeout                       int
	FinishOnKey                   string
	MaxLength                     int
	PlayBeep                      *bool
	Trim                          string
	RecordingStatusCallback       string
	RecordingStatusCallbackMethod string
	RecordingStatusCallbackEvents []string
	Transcribe                    bool
	TranscribeCallback            string
}

// Record records the caller's voice.
func (r *Response) Record(params *RecordParams) *Response {
	n := r.root.child("Record")
	if params != nil {
		if params.Action != "" {
			n.set("action", params.Action)
		}
		if params.Method != "" && params.Method != "POST" {
			n.set("method", params.Method)
		}
		if params.Timeout > 0 && params.Timeout != 5 {
			n.setInt("timeout", params.Timeout)
		}
		if params.FinishOnKey != "" && params.FinishOnKey != "1234567890*#" {
			n.set("finishOnKey", params.FinishOnKey)
		}
		if params.MaxLength > 0 && params.MaxLength != 3600 {
			n.setInt("maxLength", params.MaxLength)
		}
		if params.PlayBeep != nil && !*params.PlayBeep {
			n.set("playBeep", "false")
		}
		if params.Trim != "" && params.Trim != "trim-silence" {
			n.set("trim", params.Trim)
		}
		if params.RecordingStatusCallback != "" {
			n.set("recordingStatusCallback", params.RecordingStatusCallback)
		}
		if params.RecordingStatusCallbackMethod != "" && params.RecordingStatusCallbackMethod != "POST" {
			n.set("recordingStatusCallbackMethod", params.RecordingStatusCallbackMethod)
		}
		if len(params.RecordingStatusCallbackEvents) > 0 {
			n.set("recordingStatusCallbackEvent", strings.Join(params.RecordingStatusCallbackEvents, " "))
		}
		if params.Transcribe {
			n.set("transcribe", "true")
		}
		if params.TranscribeCallback != "" {
			n.set("transcribeCallback", params.TranscribeCallback)
		}
	}
	return r
}

// DialParams configures the Dial verb. Documented defaults: Method "POST",
// Timeout 30, TimeLimit 14400, Trim "trim-silence".
type DialParams struct {
	Action                        string
	Method                        string
	Timeout                       int
	HangupOnStar                  bool
	TimeLimit                     int
	CallerID                      string
	Record                        string
	Trim                          string
	RecordingStatusCallback       string
	RecordingStatusCallbackMethod string
	RecordingStatusCallbackEvents []string
	AnswerOnBridge                bool
	RingTone                      string
}

// Dial connects the call to another party. When number is non-empty a
// Number noun is appended immediately; either way the returned builder
// accepts further dial-target nouns.
func (r *Response) Dial(number string, params *DialParams) *Dial {
	n := r.root.child("Dial")
	if params != nil {
		if params.Action != "" {
			n.set("action", params.Action)
		}
		if params.Method != "" && params.Method != "POST" {
			n.set("method", params.Method)
		}
		if params.Timeout > 0 && params.Timeout != 30 {
			n.setInt("timeout", params.Timeout)
		}
		if params.HangupOnStar {
			n.set("hangupOnStar", "true")
		}
		if params.TimeLimit > 0 && params.TimeLimit != 14400 {
			n.setInt("timeLimit", params.TimeLimit)
		}
		if params.CallerID != "" {
			n.set("callerId", params.CallerID)
		}
		if params.Record != "" {
			n.set("record", params.Record)
		}
		if params.Trim != "" && params.Trim != "trim-silence" {
			n.set("trim", params.Trim)
		}
		if params.RecordingStatusCallback != "" {
			n.set("recordingStatusCallback", params.RecordingStatusCallback)
		}
		if params.RecordingStatusCallbackMethod != "" && params.RecordingStatusCallbackMethod != "POST" {
			n.set("recordingStatusCallbackMethod", params.RecordingStatusCallbackMethod)
		}
		if len(params.RecordingStatusCallbackEvents) > 0 {
			n.set("recordingStatusCallbackEvent", strings.Join(params.RecordingStatusCallbackEvents, " "))
		}
		if params.AnswerOnBridge {
			n.set("answerOnBridge", "true")
		}
		if params.RingTone != "" {
			n.set("ringTone", params.RingTone)
		}
	}
	d := &Dial{resp: r, n: n}
	if number != "" {
		d.Number(number, nil)
	}
	return d
}

// Hangup ends the call.
func (r *Response) Hangup() *Response {
	r.root.child("Hangup")
	return r
}

// RedirectParams configures the Redirect verb.
type RedirectParams struct {
	Method string // default POST
}

// Redirect transfers control of the call to the instructions at url.
func (r *Response) Redirect(url string, params *RedirectParams) *Response {
	url, err := requireContent("Redirect url", url)
	if err != nil {
		r.fail(err)
		return r
	}
	n := r.root.child("Redirect")
	if params != nil && params.Method != "" && params.Method != "POST" {
		n.set("method", params.Method)
	}
	n.text = url
	return r
}

// RejectParams configures the Reject verb.
type RejectParams struct {
	Reason string // "rejected" (default) or "busy"
}

// Reject declines the incoming call without answering it.
func (r *Response) Reject(params *RejectParams) *Response {
	n := r.root.child("Reject")
	if params != nil && params.Reason != "" && params.Reason != "rejected" {
		n.set("reason", params.Reason)
	}
	return r
}

// EnqueueParams configures the Enqueue verb. Defaults: Method "POST",
// WaitURLMethod "POST".
type EnqueueParams struct {
	Action        string
	Method        string
	WaitURL       string
	WaitURLMethod string
	WorkflowSID   string
}

// Enqueue places the caller in a wait queue. A non-empty name becomes the
// element text; leave it empty when routing by Task attributes instead.
func (r *Response) Enqueue(name string, params *EnqueueParams) *Enqueue {
	n := r.root.child("Enqueue")
	if params != nil {
		if params.Action != "" {
			n.set("action", params.Action)
		}
		if params.Method != "" && params.Method != "POST" {
			n.set("method", params.Method)
		}
		if params.WaitURL != "" {
			n.set("waitUrl", params.WaitURL)
		}
		if params.WaitURLMethod != "" && params.WaitURLMethod != "POST" {
			n.set("waitUrlMethod", params.WaitURLMethod)
		}
		if params.WorkflowSID != "" {
			n.set("workflowSid", params.WorkflowSID)
		}
	}
	n.text = name
	return &Enqueue{resp: r, n: n}
}

// Leave exits the queue the caller is currently waiting in.
func (r *Response) Leave() *Response {
	r.root.child("Leave")
	return r
}

// ReferParams configures the Refer verb.
type ReferParams struct {
	Action string
	Method string // default POST
}

// Refer initiates a SIP transfer; the target is supplied via the returned
// builder's Sip noun.
func (r *Response) Refer(params *ReferParams) *Refer {
	n := r.root.child("Refer")
	if params != nil {
		if params.Action != "" {
			n.set("action", params.Action)
		}
		if params.Method != "" && params.Method != "POST" {
			n.set("method", params.Method)
		}
	}
	return &Refer{resp: r, n: n}
}

// Start begins an asynchronous media stream; configure it via the returned
// builder's Stream noun.
func (r *Response) Start() *Start {
	return &Start{resp: r, n: r.root.child("Start")}
}

// Stop halts the named media stream. An empty name renders a bare
// self-closing element, which stops the call's only stream.
func (r *Response) Stop(name string) *Response {
	n := r.root.child("Stop")
	n.text = name
	return r
}

// ConnectParams configures the Connect verb.
type ConnectParams struct {
	Action string
	Method string // default POST
}

// Connect bridges the call to a bidirectional media stream.
func (r *Response) Connect(params *ConnectParams) *Connect {
	n := r.root.child("Connect")
	if params != nil {
		if params.Action != "" {
			n.set("action", params.Action)
		}
		if params.Method != "" && params.Method != "POST" {
			n.set("method", params.Method)
		}
	}
	return &Connect{resp: r, n: n}
}

// Echo loops the caller's audio back, for connectivity testing.
func (r *Response) Echo() *Response {
	r.root.child("Echo")
	return r
}
