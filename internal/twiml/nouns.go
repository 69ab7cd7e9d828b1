package twiml

import (
	"encoding/json"
	"strings"
)

// Gather scopes the verbs legal inside a Gather element.
type Gather struct {
	resp *Response
	n    *node
}

// Say nests a Say prompt inside the Gather.
func (g *Gather) Say(message string, params *SayParams) *Gather {
	g.resp.appendSay(g.n, message, params)
	return g
}

// Play nests a Play prompt inside the Gather.
func (g *Gather) Play(url string, params *PlayParams) *Gather {
	g.resp.appendPlay(g.n, url, params)
	return g
}

// Pause nests a Pause inside the Gather.
func (g *Gather) Pause(seconds int) *Gather {
	g.resp.appendPause(g.n, seconds)
	return g
}

// Done returns the root builder for further top-level verbs.
func (g *Gather) Done() *Response { return g.resp }

// Dial scopes the dial-target nouns. Multiple targets are allowed; the
// platform rings them simultaneously.
type Dial struct {
	resp *Response
	n    *node
}

// NumberParams configures a Number dial target. Defaults: Method "POST",
// StatusCallbackMethod "POST".
type NumberParams struct {
	SendDigits           string
	URL                  string
	Method               string
	StatusCallback       string
	StatusCallbackEvents []string
	StatusCallbackMethod string
}

// Number dials a phone number.
func (d *Dial) Number(number string, params *NumberParams) *Dial {
	number, err := requireContent("Number target", number)
	if err != nil {
		d.resp.fail(err)
		return d
	}
	n := d.n.child("Number")
	if params != nil {
		if params.SendDigits != "" {
			n.set("sendDigits", params.SendDigits)
		}
		url := params.URL
		if url == "" {
			url = params.StatusCallback
		}
		if url != "" {
			n.set("url", url)
		}
		if params.Method != "" && params.Method != "POST" {
			n.set("method", params.Method)
		}
		if len(params.StatusCallbackEvents) > 0 {
			n.set("statusCallbackEvent", strings.Join(params.StatusCallbackEvents, " "))
		}
		if params.StatusCallbackMethod != "" && params.StatusCallbackMethod != "POST" {
			n.set("statusCallbackMethod", params.StatusCallbackMethod)
		}
	}
	n.text = number
	return d
}

// SipParams configures a Sip dial target.
type SipParams struct {
	Username string
	Password string
}

// Sip dials a SIP URI.
func (d *Dial) Sip(uri string, params *SipParams) *Dial {
	uri, err := requireContent("Sip target", uri)
	if err != nil {
		d.resp.fail(err)
		return d
	}
	n := d.n.child("Sip")
	if params != nil {
		if params.Username != "" {
			n.set("username", params.Username)
		}
		if params.Password != "" {
			n.set("password", params.Password)
		}
	}
	n.text = uri
	return d
}

// ClientParams configures a Client dial target.
type ClientParams struct {
	URL    string
	Method string // default POST
}

// Client dials a named softphone client.
func (d *Dial) Client(name string, params *ClientParams) *Dial {
	name, err := requireContent("Client target", name)
	if err != nil {
		d.resp.fail(err)
		return d
	}
	n := d.n.child("Client")
	if params != nil {
		if params.URL != "" {
			n.set("url", params.URL)
		}
		if params.Method != "" && params.Method != "POST" {
			n.set("method", params.Method)
		}
	}
	n.text = name
	return d
}

// ConferenceParams configures a Conference dial target. Documented
// defaults, omitted when matched: Beep "true", StartConferenceOnEnter
// true, WaitMethod "POST", Trim "trim-silence".
type ConferenceParams struct {
	Muted                         bool
	Beep                          string // "true", "false", "onEnter", "onExit"
	StartConferenceOnEnter        *bool
	EndConferenceOnExit           bool
	WaitURL                       string
	WaitMethod                    string
	MaxParticipants               int
	Record                        string
	Region                        string
	Whisper                       string
	Trim                          string
	StatusCallbackEvents          []string
	StatusCallback                string
	StatusCallbackMethod          string
	RecordingChannels             string
	RecordingStatusCallback       string
	RecordingStatusCallbackMethod string
	Coaching                      bool
	CallSIDToCoach                string
}

// Conference joins the caller to a named conference room.
func (d *Dial) Conference(name string, params *ConferenceParams) *Dial {
	name, err := requireContent("Conference target", name)
	if err != nil {
		d.resp.fail(err)
		return d
	}
	n := d.n.child("Conference")
	if params != nil {
		if params.Muted {
			n.set("muted", "true")
		}
		if params.Beep != "" && params.Beep != "true" {
			n.set("beep", params.Beep)
		}
		if params.StartConferenceOnEnter != nil && !*params.StartConferenceOnEnter {
			n.set("startConferenceOnEnter", "false")
		}
		if params.EndConferenceOnExit {
			n.set("endConferenceOnExit", "true")
		}
		if params.WaitURL != "" {
			n.set("waitUrl", params.WaitURL)
		}
		if params.WaitMethod != "" && params.WaitMethod != "POST" {
			n.set("waitMethod", params.WaitMethod)
		}
		if params.MaxParticipants > 0 {
			n.setInt("maxParticipants", params.MaxParticipants)
		}
		if params.Record != "" {
			n.set("record", params.Record)
		}
		if params.Region != "" {
			n.set("region", params.Region)
		}
		if params.Whisper != "" {
			n.set("whisper", params.Whisper)
		}
		if params.Trim != "" && params.Trim != "trim-silence" {
			n.set("trim", params.Trim)
		}
		if len(params.StatusCallbackEvents) > 0 {
			n.set("statusCallbackEvent", strings.Join(params.StatusCallbackEvents, " "))
		}
		if params.StatusCallback != "" {
			n.set("statusCallback", params.StatusCallback)
		}
		if params.StatusCallbackMethod != "" && params.StatusCallbackMethod != "POST" {
			n.set("statusCallbackMethod", params.StatusCallbackMethod)
		}
		if params.RecordingChannels != "" {
			n.set("recordingChannels", params.RecordingChannels)
		}
		if params.RecordingStatusCallback != "" {
			n.set("recordingStatusCallback", params.RecordingStatusCallback)
		}
		if params.RecordingStatusCallbackMethod != "" && params.RecordingStatusCallbackMethod != "POST" {
			n.set("recordingStatusCallbackMethod", params.RecordingStatusCallbackMethod)
		}
		if params.Coaching {
			n.set("coaching", "true")
		}
		if params.CallSIDToCoach != "" {
			n.set("callSidToCoach", params.CallSIDToCoach)
		}
	}
	n.text = name
	return d
}

// QueueParams configures a Queue dial target.
type QueueParams struct {
	URL                 string
	Method              string // default POST
	ReservationSID      string
	PostWorkActivitySID string
}

// Queue dials the caller at the front of a named queue.
func (d *Dial) Queue(name string, params *QueueParams) *Dial {
	name, err := requireContent("Queue target", name)
	if err != nil {
		d.resp.fail(err)
		return d
	}
	n := d.n.child("Queue")
	if params != nil {
		if params.URL != "" {
			n.set("url", params.URL)
		}
		if params.Method != "" && params.Method != "POST" {
			n.set("method", params.Method)
		}
		if params.ReservationSID != "" {
			n.set("reservationSid", params.ReservationSID)
		}
		if params.PostWorkActivitySID != "" {
			n.set("postWorkActivitySid", params.PostWorkActivitySID)
		}
	}
	n.text = name
	return d
}

// Sim dials a wireless SIM by SID.
func (d *Dial) Sim(simSID string) *Dial {
	simSID, err := requireContent("Sim target", simSID)
	if err != nil {
		d.resp.fail(err)
		return d
	}
	d.n.child("Sim").text = simSID
	return d
}

// Done returns the root builder for further top-level verbs.
func (d *Dial) Done() *Response { return d.resp }

// Enqueue scopes the nouns legal inside an Enqueue element.
type Enqueue struct {
	resp *Response
	n    *node
}

// Task attaches routing attributes as a JSON body. Map keys serialize in
// sorted order, so equal attribute sets always produce equal documents.
func (e *Enqueue) Task(attributes map[string]any) *Enqueue {
	if len(attributes) == 0 {
		return e
	}
	body, err := json.Marshal(attributes)
	if err != nil {
		e.resp.fail(err)
		return e
	}
	e.n.child("Task").text = string(body)
	return e
}

// Done returns the root builder for further top-level verbs.
func (e *Enqueue) Done() *Response { return e.resp }

// Refer scopes the nouns legal inside a Refer element.
type Refer struct {
	resp *Response
	n    *node
}

// Sip sets the SIP URI the call is transferred to.
func (rf *Refer) Sip(uri string) *Refer {
	uri, err := requireContent("Refer Sip target", uri)
	if err != nil {
		rf.resp.fail(err)
		return rf
	}
	rf.n.child("Sip").text = uri
	return rf
}

// Done returns the root builder for further top-level verbs.
func (rf *Refer) Done() *Response { return rf.resp }

// StreamParams configures a Stream noun. Default Track "both_tracks" and
// StatusCallbackMethod "POST" are omitted.
type StreamParams struct {
	Name                 string
	ConnectorName        string
	URL                  string
	Track                string
	StatusCallback       string
	StatusCallbackMethod string
}

func appendStream(parent *node, params *StreamParams) {
	n := parent.child("Stream")
	if params == nil {
		return
	}
	if params.Name != "" {
		n.set("name", params.Name)
	}
	if params.ConnectorName != "" {
		n.set("connectorName", params.ConnectorName)
	}
	if params.URL != "" {
		n.set("url", params.URL)
	}
	if params.Track != "" && params.Track != "both_tracks" {
		n.set("track", params.Track)
	}
	if params.StatusCallback != "" {
		n.set("statusCallback", params.StatusCallback)
	}
	if params.StatusCallbackMethod != "" && params.StatusCallbackMethod != "POST" {
		n.set("statusCallbackMethod", params.StatusCallbackMethod)
	}
}

// Start scopes the nouns legal inside a Start element.
type Start struct {
	resp *Response
	n    *node
}

// Stream declares the media stream to start.
func (s *Start) Stream(params *StreamParams) *Start {
	appendStream(s.n, params)
	return s
}

// Done returns the root builder for further top-level verbs.
func (s *Start) Done() *Response { return s.resp }

// Connect scopes the nouns legal inside a Connect element.
type Connect struct {
	resp *Response
	n    *node
}

// Stream declares the bidirectional media stream to bridge.
func (c *Connect) Stream(params *StreamParams) *Connect {
	appendStream(c.n, params)
	return c
}

// Done returns the root builder for further top-level verbs.
func (c *Connect) Done() *Response { return c.resp }
