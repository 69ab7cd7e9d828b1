package rest

import "fmt"

// Fixed error codes for failures that never reach the provider, plus the
// documented codes for operations with no backend equivalent.
const (
	CodeConnection        = 20003
	CodeDeleteUnsupported = 20005
	CodeTimeout           = 20008
	CodeNotSupported      = 20404
)

// RestError is the structured form of a remote or unsupported-operation
// failure: provider message and numeric code, HTTP status, and the request
// that produced it.
type RestError struct {
	Message  string
	Code     int
	Status   int
	Method   string
	URI      string
	MoreInfo string
}

func (e *RestError) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("HTTP %d error: %s", e.Status, e.Message)
	}
	if e.Code != 0 {
		msg += fmt.Sprintf(" (error code: %d)", e.Code)
	}
	if e.MoreInfo != "" {
		msg += " more info: " + e.MoreInfo
	}
	return msg
}
