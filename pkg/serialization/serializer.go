// Package serialization encodes flow snapshots for storage.
// PRINCIPLES:
// - KISS: Simple interface with multiple codec implementations
// - DRY: Reusable across all flow repositories
package serialization

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec interface for serialization
// PRINCIPLES:
// - ISP: Simple interface with ≤5 methods
// - SRP: Single responsibility for serialization
type Codec interface {
	Encode(v interface{}) ([]byte, error)
	Decode(data []byte, v interface{}) error
	Name() string
}

// CompressionType represents compression algorithms
type CompressionType string

const (
	CompressionNone CompressionType = "none"
	CompressionGzip CompressionType = "gzip"
	CompressionZstd CompressionType = "zstd"
)

// ParseCompression maps a configuration value to a CompressionType
func ParseCompression(s string) (CompressionType, error) {
	switch c := CompressionType(s); c {
	case CompressionNone, CompressionGzip, CompressionZstd:
		return c, nil
	case "":
		return CompressionNone, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCompression, s)
	}
}

// CodecByName returns the codec registered under name
func CodecByName(name string) (Codec, error) {
	switch name {
	case "json":
		return NewJSONCodec(), nil
	case "msgpack", "":
		return NewMsgPackCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// SerializationConfig holds serialization settings
type SerializationConfig struct {
	Codec       Codec
	Compression CompressionType
}

// Serializer pairs a codec with a compression step
type Serializer struct {
	config SerializationConfig
}

// NewSerializer creates a new serializer with configuration
func NewSerializer(config SerializationConfig) *Serializer {
	if config.Codec == nil {
		config.Codec = NewMsgPackCodec()
	}
	if config.Compression == "" {
		config.Compression = CompressionNone
	}
	return &Serializer{config: config}
}

// Format names the encoding, e.g. "msgpack+zstd"
func (s *Serializer) Format() string {
	if s.config.Compression == CompressionNone {
		return s.config.Codec.Name()
	}
	return s.config.Codec.Name() + "+" + string(s.config.Compression)
}

// ForFormat rebuilds the serializer that produced a Format string
func ForFormat(format string) (*Serializer, error) {
	name, comp, _ := strings.Cut(format, "+")
	codec, err := CodecByName(name)
	if err != nil {
		return nil, err
	}
	ct, err := ParseCompression(comp)
	if err != nil {
		return nil, err
	}
	return NewSerializer(SerializationConfig{Codec: codec, Compression: ct}), nil
}

// Serialize encodes and compresses v
func (s *Serializer) Serialize(v interface{}) ([]byte, error) {
	data, err := s.config.Codec.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("codec encoding failed: %w", err)
	}

	data, err = s.compress(data)
	if err != nil {
		return nil, fmt.Errorf("compression failed: %w", err)
	}

	return data, nil
}

// Deserialize decompresses and decodes data into v
func (s *Serializer) Deserialize(data []byte, v interface{}) error {
	data, err := s.decompress(data)
	if err != nil {
		return fmt.Errorf("decompression failed: %w", err)
	}

	if err := s.config.Codec.Decode(data, v); err != nil {
		return fmt.Errorf("codec decoding failed: %w", err)
	}

	return nil
}

// compress applies compression based on configuration
func (s *Serializer) compress(data []byte) ([]byte, error) {
	switch s.config.Compression {
	case CompressionGzip:
		return compressGzip(data)
	case CompressionZstd:
		return compressZstd(data)
	default:
		return data, nil
	}
}

// decompress removes compression based on configuration
func (s *Serializer) decompress(data []byte) ([]byte, error) {
	switch s.config.Compression {
	case CompressionGzip:
		return decompressGzip(data)
	case CompressionZstd:
		return decompressZstd(data)
	default:
		return data, nil
	}
}

func compressGzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)

	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decompressGzip(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

func compressZstd(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer encoder.Close()

	return encoder.EncodeAll(data, nil), nil
}

func decompressZstd(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()

	return decoder.DecodeAll(data, nil)
}

// JSONCodec implements JSON serialization
type JSONCodec struct{}

func (c *JSONCodec) Encode(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (c *JSONCodec) Decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (c *JSONCodec) Name() string {
	return "json"
}

// MsgPackCodec implements MessagePack serialization
type MsgPackCodec struct{}

func (c *MsgPackCodec) Encode(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (c *MsgPackCodec) Decode(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}

func (c *MsgPackCodec) Name() string {
	return "msgpack"
}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() Codec {
	return &JSONCodec{}
}

// NewMsgPackCodec creates a new MessagePack codec
func NewMsgPackCodec() Codec {
	return &MsgPackCodec{}
}

// DefaultSerializer creates a serializer with sensible defaults
func DefaultSerializer() *Serializer {
	return NewSerializer(SerializationConfig{
		Codec:       NewMsgPackCodec(),
		Compression: CompressionZstd,
	})
}
