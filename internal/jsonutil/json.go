// Package jsonutil provides a configurable JSON encoding/decoding layer.
// It defaults to github.com/bytedance/sonic but can be swapped for any
// implementation satisfying Encoder/Decoder.
package jsonutil

import (
	stdjson "encoding/json"
	"io"

	"github.com/bytedance/sonic"
	"github.com/bytedance/sonic/decoder"
	"github.com/bytedance/sonic/encoder"
)

// Encoder is the interface for streaming JSON encoding.
type Encoder interface {
	Encode(v any) error
}

// Decoder is the interface for streaming JSON decoding.
type Decoder interface {
	Decode(v any) error
}

// Config holds the JSON encoding/decoding functions used package-wide.
type Config struct {
	Marshal       func(v any) ([]byte, error)
	MarshalIndent func(v any, prefix, indent string) ([]byte, error)
	Unmarshal     func(data []byte, v any) error
	NewEncoder    func(w io.Writer) Encoder
	NewDecoder    func(r io.Reader) Decoder
}

// DefaultConfig returns the sonic-backed configuration.
func DefaultConfig() Config {
	return Config{
		Marshal:       sonic.Marshal,
		MarshalIndent: sonic.MarshalIndent,
		Unmarshal:     sonic.Unmarshal,
		NewEncoder: func(w io.Writer) Encoder {
			return encoder.NewStreamEncoder(w)
		},
		NewDecoder: func(r io.Reader) Decoder {
			return decoder.NewStreamDecoder(r)
		},
	}
}

var config = DefaultConfig()

// SetConfig overrides the package-wide JSON configuration.
func SetConfig(c Config) {
	config = c
}

// GetConfig returns the current JSON configuration.
func GetConfig() Config {
	return config
}

// Marshal returns the JSON encoding of v.
func Marshal(v any) ([]byte, error) {
	return config.Marshal(v)
}

// MarshalIndent is like Marshal but indents the output.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return config.MarshalIndent(v, prefix, indent)
}

// Unmarshal parses JSON-encoded data into v.
func Unmarshal(data []byte, v any) error {
	return config.Unmarshal(data, v)
}

// NewEncoder returns an Encoder writing to w.
func NewEncoder(w io.Writer) Encoder {
	return config.NewEncoder(w)
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) Decoder {
	return config.NewDecoder(r)
}

// RawMessage delays JSON decoding of a value. Kept as the stdlib type since
// sonic round-trips it transparently and every json:"..." struct tag in this
// module can rely on its Marshaler/Unmarshaler behavior.
type RawMessage = stdjson.RawMessage
