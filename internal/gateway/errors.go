package gateway

import "errors"

var (
	ErrMalformedFrame  = errors.New("gateway: malformed frame")
	ErrUnhandledOp     = errors.New("gateway: unhandled op")
	ErrMissingEvent    = errors.New("gateway: dispatch missing event name")
	ErrMissingSequence = errors.New("gateway: dispatch missing sequence")
	ErrUnknownEvent    = errors.New("gateway: unknown event name")
	ErrMalformedEvent  = errors.New("gateway: malformed event payload")
)
