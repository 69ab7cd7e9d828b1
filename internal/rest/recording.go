package rest

import "context"

// RecordingService mirrors the recordings sub-resource. The provider does
// not expose recording listing or lookup, so reads degrade the same way the
// message stubs do.
type RecordingService struct {
	client *Client
}

type RecordingRecord struct {
	SID      string
	CallSID  string
	Duration string
	URL      string
}

func (s *RecordingService) List(ctx context.Context, callSID string) ([]RecordingRecord, error) {
	return nil, nil
}

func (s *RecordingService) Get(ctx context.Context, sid string) (*RecordingRecord, error) {
	return nil, &RestError{Message: "recording not found", Code: CodeNotSupported, Status: 404}
}
