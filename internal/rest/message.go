package rest

import "context"

// MessageService keeps the resource tree shape intact for callers ported
// from the full SDK. Messaging has no backend equivalent, so anything that
// would touch a message fails with the fixed not-supported code; listing
// degrades to empty.
type MessageService struct {
	client *Client
}

// MessageRecord exists only so ported call sites type-check; no operation
// ever yields one.
type MessageRecord struct {
	SID    string
	To     string
	From   string
	Body   string
	Status string
}

func notSupported(what string) *RestError {
	return &RestError{Message: what + " is not supported by the provider", Code: CodeNotSupported}
}

func (s *MessageService) Create(ctx context.Context, to, from, body string) (*MessageRecord, error) {
	return nil, notSupported("messaging")
}

func (s *MessageService) Get(ctx context.Context, sid string) (*MessageRecord, error) {
	return nil, notSupported("messaging")
}

func (s *MessageService) List(ctx context.Context) ([]MessageRecord, error) {
	return nil, nil
}
