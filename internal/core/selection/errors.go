package selection

import "errors"

var (
	ErrUnknownEvent  = errors.New("unknown selection event")
	ErrMissingNodeID = errors.New("node clicked event requires a node ID")
)
