package rest

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"callbridge/internal/phone"
	"callbridge/internal/status"
)

// ErrInvalidArgument marks call-creation parameter validation failures.
// These are raised before any I/O happens.
var ErrInvalidArgument = errors.New("rest: invalid argument")

// CallService creates and fetches calls.
type CallService struct {
	client *Client
}

// CreateCallParams carries the compatibility-surface parameters for
// outbound call creation. Zero values are omitted from the provider
// request; documented defaults (Method POST, MachineDetectionTimeout 30,
// TimeLimit 14400) are likewise not sent when matched.
type CreateCallParams struct {
	To             string
	From           string
	URL            string
	Method         string
	TwiML          string
	ApplicationSID string

	FallbackURL    string
	FallbackMethod string

	StatusCallback       string
	StatusCallbackEvents []string
	StatusCallbackMethod string

	SendDigits string
	Timeout    int
	TimeLimit  int

	Record                        string // "", "record-from-answer", "record-from-ringing"
	RecordingChannels             string
	RecordingStatusCallback       string
	RecordingStatusCallbackMethod string
	RecordingStatusCallbackEvents []string
	Trim                          string
	RecordingTrack                string

	MachineDetection        string // "enable", "DetectMessageEnd", "enable-async"
	MachineDetectionTimeout int
	IfMachine               string // "continue" or "hangup"
	IfMachineURL            string

	SIPAuthUsername string
	SIPAuthPassword string

	CallerID   string
	CallReason string
	CallToken  string
}

func (p CreateCallParams) validate() error {
	if p.To == "" {
		return fmt.Errorf("%w: To is required", ErrInvalidArgument)
	}
	if p.From == "" && p.CallerID == "" {
		return fmt.Errorf("%w: From is required", ErrInvalidArgument)
	}
	if p.URL == "" && p.TwiML == "" && p.ApplicationSID == "" {
		return fmt.Errorf("%w: one of URL, TwiML or ApplicationSID is required", ErrInvalidArgument)
	}
	return nil
}

// Create places an outbound call. Validation failures surface before any
// request is made; provider failures come back as *RestError.
func (s *CallService) Create(ctx context.Context, p CreateCallParams) (*CallRecord, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	from := p.From
	if from == "" {
		from = p.CallerID
	}
	payload := map[string]any{
		"number":   p.To,
		"callerId": from,
	}

	method := p.Method
	if method == "" {
		method = "POST"
	}
	switch {
	case p.URL != "":
		payload["webhookUrl"] = p.URL
		payload["webhookMethod"] = method
	case p.StatusCallback != "":
		payload["webhookUrl"] = p.StatusCallback
		payload["webhookMethod"] = p.StatusCallbackMethod
	case p.ApplicationSID != "":
		payload["applicationSid"] = p.ApplicationSID
	}
	if p.TwiML != "" {
		payload["twiml"] = p.TwiML
	}

	switch p.MachineDetection {
	case "enable", "DetectMessageEnd", "enable-async":
		payload["useAmd"] = true
		payload["amdEnabled"] = true
		if p.MachineDetectionTimeout > 0 && p.MachineDetectionTimeout != 30 {
			payload["amdTimeout"] = p.MachineDetectionTimeout
		}
		if p.IfMachine == "hangup" {
			payload["hangupOnMachine"] = true
		} else if p.IfMachineURL != "" {
			payload["machineUrl"] = p.IfMachineURL
		}
	}

	if p.Record != "" {
		payload["record"] = true
		if p.Record == "record-from-ringing" {
			payload["recordFromStart"] = true
		}
		if p.RecordingChannels != "" {
			payload["recordingChannels"] = p.RecordingChannels
		}
		if p.RecordingStatusCallback != "" {
			payload["recordingStatusCallback"] = p.RecordingStatusCallback
			payload["recordingStatusCallbackMethod"] = orPost(p.RecordingStatusCallbackMethod)
		}
		if len(p.RecordingStatusCallbackEvents) > 0 {
			payload["recordingStatusCallbackEvent"] = strings.Join(p.RecordingStatusCallbackEvents, ",")
		}
		if p.Trim != "" && p.Trim != "trim-silence" {
			payload["recordingTrim"] = p.Trim
		}
		if p.RecordingTrack != "" && p.RecordingTrack != "both" {
			payload["recordingTrack"] = p.RecordingTrack
		}
	}

	if p.Timeout > 0 {
		payload["timeout"] = p.Timeout
	}
	if p.TimeLimit > 0 && p.TimeLimit != 14400 {
		payload["timeLimit"] = p.TimeLimit
	}
	if p.SendDigits != "" {
		payload["sendDigits"] = p.SendDigits
	}

	if p.StatusCallback != "" {
		payload["statusCallback"] = p.StatusCallback
		payload["statusCallbackMethod"] = orPost(p.StatusCallbackMethod)
		if len(p.StatusCallbackEvents) > 0 {
			payload["statusCallbackEvent"] = strings.Join(p.StatusCallbackEvents, ",")
		}
	}
	if p.FallbackURL != "" {
		payload["fallbackUrl"] = p.FallbackURL
		payload["fallbackMethod"] = orPost(p.FallbackMethod)
	}
	if p.SIPAuthUsername != "" {
		payload["sipAuthUsername"] = p.SIPAuthUsername
	}
	if p.SIPAuthPassword != "" {
		payload["sipAuthPassword"] = p.SIPAuthPassword
	}
	if p.CallReason != "" {
		payload["callReason"] = p.CallReason
	}
	if p.CallToken != "" {
		payload["callToken"] = p.CallToken
	}

	resp, err := s.client.do(ctx, "POST", "/makecall", payload)
	if err != nil {
		return nil, err
	}

	// Fold request parameters back in so the record reflects what was asked
	// for even when the provider echoes a sparse body.
	resp["number"] = p.To
	resp["callerId"] = from
	if _, ok := payload["useAmd"]; ok {
		resp["amdEnabled"] = true
	}
	return newCallRecord(s, resp, s.client.AccountSID(), ""), nil
}

// Get fetches a call by SID. Lookup failures degrade to a minimal record so
// sub-resource navigation keeps working; mutating operations on that record
// still surface real errors.
func (s *CallService) Get(ctx context.Context, sid string) *CallRecord {
	resp, err := s.client.do(ctx, "GET", "/calls/"+sid, nil)
	if err != nil || resp == nil {
		resp = map[string]any{"callId": sid, "status": "unknown"}
	}
	return newCallRecord(s, resp, s.client.AccountSID(), sid)
}

// List always returns empty: call records are never stored, so there is
// nothing to enumerate. Kept so ported call sites type-check.
func (s *CallService) List(ctx context.Context) ([]CallRecord, error) {
	return nil, nil
}

// CallRecord is the canonical view of one call. Records are constructed
// fresh per request and never persisted.
type CallRecord struct {
	SID           string
	AccountSID    string
	ParentCallSID string

	To            string
	ToFormatted   string
	From          string
	FromFormatted string

	Status    string
	Direction string

	DateCreated *time.Time
	DateUpdated *time.Time
	StartTime   *time.Time
	EndTime     *time.Time
	Duration    string // seconds; empty when unknown

	CallerName    string
	ForwardedFrom string

	Price     string
	PriceUnit string

	AnsweredBy       string
	MachineDetection string

	ToCity      string
	ToState     string
	ToZip       string
	ToCountry   string
	FromCity    string
	FromState   string
	FromZip     string
	FromCountry string

	Annotation string
	GroupSID   string

	APIVersion string

	service *CallService
}

func newCallRecord(svc *CallService, payload map[string]any, accountSID, sid string) *CallRecord {
	r := &CallRecord{
		AccountSID: accountSID,
		APIVersion: APIVersion,
		Direction:  "outbound-api",
		service:    svc,
	}

	r.SID = str(payload, "callId")
	if r.SID == "" {
		r.SID = sid
	}
	if r.SID == "" {
		r.SID = phone.NewCallSID()
	}
	r.ParentCallSID = str(payload, "parentCallSid")

	r.DateCreated = parseTime(pick(payload, "timestamp"))
	r.DateUpdated = parseTime(pick(payload, "lastUpdated", "timestamp"))

	r.To = phone.ToE164(str(payload, "number", "to"))
	r.ToFormatted = phone.ToDisplay(r.To)
	r.From = phone.ToE164(str(payload, "callerId", "from"))
	r.FromFormatted = phone.ToDisplay(r.From)

	raw := str(payload, "status")
	if raw == "" {
		raw = "unknown"
	}
	r.Status = status.MapCallStatus(raw, status.FallbackCreated)

	r.StartTime = parseTime(pick(payload, "startTime", "timestamp"))
	r.EndTime = parseTime(pick(payload, "endTime"))
	if v, ok := payload["duration"]; ok {
		r.Duration = stringify(v)
	}

	r.CallerName = str(payload, "callerName")
	r.ForwardedFrom = phone.ToE164(str(payload, "forwardedFrom"))

	r.Price = str(payload, "price")
	r.PriceUnit = str(payload, "priceUnit")
	if r.PriceUnit == "" {
		r.PriceUnit = "USD"
	}

	if amd, ok := payload["amd"].(map[string]any); ok {
		if by, ok := status.MapAnsweredBy(str(amd, "status")); ok {
			r.AnsweredBy = by
		}
	}
	r.MachineDetection = "disabled"
	if truthy(payload["amdEnabled"]) || truthy(payload["useAmd"]) {
		r.MachineDetection = "enable"
	}

	geo, _ := payload["geography"].(map[string]any)
	r.ToCity = geoField(geo, payload, "toCity")
	r.ToState = geoField(geo, payload, "toState")
	r.ToZip = geoField(geo, payload, "toZip")
	r.ToCountry = geoField(geo, payload, "toCountry")
	if r.ToCountry == "" {
		r.ToCountry = "US"
	}
	r.FromCity = geoField(geo, payload, "fromCity")
	r.FromState = geoField(geo, payload, "fromState")
	r.FromZip = geoField(geo, payload, "fromZip")
	r.FromCountry = geoField(geo, payload, "fromCountry")
	if r.FromCountry == "" {
		r.FromCountry = "US"
	}

	r.Annotation = str(payload, "annotation")
	r.GroupSID = str(payload, "groupSid")
	return r
}

// URI is the record's locator. Always derived from the current SID.
func (r *CallRecord) URI() string {
	return fmt.Sprintf("/%s/Accounts/%s/Calls/%s.json", APIVersion, r.AccountSID, r.SID)
}

// SubresourceURIs computes the sub-resource locators. They are recomputed
// on every call rather than cached: a locator must always reflect the
// current SID.
func (r *CallRecord) SubresourceURIs() map[string]string {
	base := fmt.Sprintf("/%s/Accounts/%s/Calls/%s", APIVersion, r.AccountSID, r.SID)
	names := []string{"notifications", "recordings", "payments", "events", "siprec", "streams", "user_defined_messages"}
	uris := make(map[string]string, len(names))
	for _, n := range names {
		uris[n] = base + "/" + exportName(n) + ".json"
	}
	return uris
}

// UpdateCallParams carries in-call control updates.
type UpdateCallParams struct {
	URL                  string
	Method               string
	Status               string // "completed" hangs up
	TwiML                string
	StatusCallback       string
	StatusCallbackMethod string
	StatusCallbackEvents []string
}

// Update modifies a live call. Setting Status to "completed" hangs it up.
// Remote failures are always surfaced; update is a mutating operation.
func (r *CallRecord) Update(ctx context.Context, p UpdateCallParams) error {
	if strings.EqualFold(p.Status, status.Completed) {
		if _, err := r.service.client.do(ctx, "POST", "/hangup", map[string]any{"callId": r.SID}); err != nil {
			return err
		}
		r.Status = status.Completed
		now := time.Now().UTC()
		r.EndTime = &now
	}

	update := map[string]any{}
	if p.URL != "" {
		update["webhookUrl"] = p.URL
		update["method"] = orPost(p.Method)
	}
	if p.TwiML != "" {
		update["twiml"] = p.TwiML
	}
	if p.StatusCallback != "" {
		update["statusCallback"] = p.StatusCallback
		update["statusCallbackMethod"] = orPost(p.StatusCallbackMethod)
		if len(p.StatusCallbackEvents) > 0 {
			update["statusCallbackEvent"] = strings.Join(p.StatusCallbackEvents, ",")
		}
	}
	if len(update) == 0 {
		return nil
	}
	_, err := r.service.client.do(ctx, "POST", "/calls/"+r.SID, update)
	return err
}

// Fetch refreshes the record from the provider.
func (r *CallRecord) Fetch(ctx context.Context) error {
	resp, err := r.service.client.do(ctx, "GET", "/calls/"+r.SID, nil)
	if err != nil {
		return err
	}
	*r = *newCallRecord(r.service, resp, r.AccountSID, r.SID)
	return nil
}

// Delete has no backend equivalent: call records are never stored, so there
// is nothing to delete. Always fails with the fixed code.
func (r *CallRecord) Delete(ctx context.Context) error {
	return &RestError{Message: "call record deletion is not supported", Code: CodeDeleteUnsupported}
}

func orPost(method string) string {
	if method == "" {
		return "POST"
	}
	return method
}

// exportName maps a snake_case sub-resource key to its wire spelling.
func exportName(key string) string {
	parts := strings.Split(key, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "")
}

func pick(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			if s, isStr := v.(string); isStr && s == "" {
				continue
			}
			return v
		}
	}
	return nil
}

func str(m map[string]any, keys ...string) string {
	return stringify(pick(m, keys...))
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

func parseTime(v any) *time.Time {
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		ts := time.Unix(int64(t), 0).UTC()
		return &ts
	case string:
		if t == "" {
			return nil
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
			if ts, err := time.Parse(layout, t); err == nil {
				ts = ts.UTC()
				return &ts
			}
		}
		if epoch, err := strconv.ParseFloat(t, 64); err == nil {
			ts := time.Unix(int64(epoch), 0).UTC()
			return &ts
		}
	}
	return nil
}

func geoField(geo, payload map[string]any, key string) string {
	if geo != nil {
		if v := stringify(pick(geo, key)); v != "" {
			return v
		}
	}
	return str(payload, key)
}
