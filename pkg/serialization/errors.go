package serialization

import "errors"

var (
	ErrUnknownCodec       = errors.New("unknown codec")
	ErrUnknownCompression = errors.New("unknown compression")
)
