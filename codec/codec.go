// Package codec is the single place records are encoded for storage.
// CBOR with deterministic encoding: the same record always produces the
// same bytes, and unknown fields are ignored on decode so old records
// survive schema additions.
package codec

import (
	"github.com/fxamacker/cbor/v2"
)

var encMode cbor.EncMode
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("codec: decoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v with deterministic CBOR encoding.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func Unmarshal(data []byte, v any) error {
	return decMode.Unmarshal(data, v)
}
