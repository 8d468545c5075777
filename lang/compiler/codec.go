package compiler

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Dump returns the binary image of a compiled function. The image is
// self-contained and can be turned back into an equivalent Funcode with
// Load.
func Dump(fn *Funcode) ([]byte, error) {
	if fn == nil {
		return nil, errors.New("no compiled function to dump")
	}
	b, err := cbor.Marshal(fn)
	if err != nil {
		return nil, fmt.Errorf("dump function %s: %w", fn.Name, err)
	}
	return b, nil
}

// Load decodes a binary image produced by Dump.
func Load(b []byte) (*Funcode, error) {
	var fn Funcode
	if err := cbor.Unmarshal(b, &fn); err != nil {
		return nil, fmt.Errorf("load function image: %w", err)
	}
	for _, c := range fn.Constants {
		switch c.Kind {
		case ConstInt, ConstFloat, ConstString:
		default:
			return nil, fmt.Errorf("load function image: invalid constant kind %d", c.Kind)
		}
	}
	return &fn, nil
}
