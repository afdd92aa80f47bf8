/*
Package cbor encodes the off-chain voucher envelopes.

All packages must encode through this one so that the same value always has
the same encoding (Core Deterministic Encoding, RFC 8949 section 4.2.1), voucher
IDs are hashes of the encoding. Decoding is strict, the envelopes come from
untrusted parties.
*/
package cbor

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

type (
	Tag     = uint64
	Encoder = cbor.Encoder
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(fmt.Errorf("initializing CBOR encoder: %w", err))
	}
	decOpts := cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		IndefLength:      cbor.IndefLengthForbidden,
		MaxArrayElements: 1 << 16,
	}
	if decMode, err = decOpts.DecMode(); err != nil {
		panic(fmt.Errorf("initializing CBOR decoder: %w", err))
	}
}

func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}

// NewEncoder returns encoder writing deterministic CBOR into w.
func NewEncoder(w io.Writer) *Encoder {
	return encMode.NewEncoder(w)
}

// MarshalTaggedValue encodes v as the content of the tag.
func MarshalTaggedValue(tag Tag, v any) ([]byte, error) {
	content, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return Marshal(cbor.RawTag{Number: tag, Content: content})
}

// UnmarshalTaggedValue decodes the content of the tag into v, other tags are rejected.
func UnmarshalTaggedValue(tag Tag, data []byte, v any) error {
	var raw cbor.RawTag
	if err := Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Number != tag {
		return fmt.Errorf("unexpected tag: %d, expected: %d", raw.Number, tag)
	}
	return Unmarshal(raw.Content, v)
}
