package calc

import (
	"fmt"
	"slices"
)

// Op is a binary operator. It is stored on the wire as its symbol.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpLess
	OpEqual
)

var opSymbols = []string{"+", "-", "*", "/", "<", "=="}

func (o Op) String() string {
	if o < 0 || int(o) >= len(opSymbols) {
		return fmt.Sprintf("Op(%d)", int(o))
	}
	return opSymbols[o]
}

// ParseOp returns the operator with the given symbol.
func ParseOp(symbol string) (Op, error) {
	i := slices.Index(opSymbols, symbol)
	if i < 0 {
		return 0, fmt.Errorf("unknown operator %q", symbol)
	}
	return Op(i), nil
}

// MarshalCBORValue implements cbor.Marshaler.
func (o Op) MarshalCBORValue() (any, error) {
	if o < 0 || int(o) >= len(opSymbols) {
		return nil, fmt.Errorf("invalid operator %d", int(o))
	}
	return opSymbols[o], nil
}

// UnmarshalCBORValue implements cbor.Unmarshaler.
func (o *Op) UnmarshalCBORValue(v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("operator must be a text string, got %T", v)
	}
	op, err := ParseOp(s)
	if err != nil {
		return err
	}
	*o = op
	return nil
}
