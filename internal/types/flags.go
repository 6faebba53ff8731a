package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// FlagsKind identifies which shape a Flags value holds.
type FlagsKind int

const (
	// FlagsFlat is a plain list of flag tokens.
	FlagsFlat FlagsKind = iota
	// FlagsPartitioned splits flag lines into required and optional groups.
	FlagsPartitioned
)

var errInvalidFlagsShape = errors.New("flags must be a JSON array or object")

// Flags is a tagged variant. First-level parses produce FlagsFlat and
// nested parses produce FlagsPartitioned; the two shapes are never merged.
type Flags struct {
	Kind     FlagsKind
	List     []string
	Required []string
	Optional []string
}

type partitionedFlagsDocument struct {
	Required []string `json:"required"`
	Optional []string `json:"optional"`
}

// NewFlatFlags returns a flat flag list.
func NewFlatFlags(tokens []string) *Flags {
	if tokens == nil {
		tokens = []string{}
	}
	return &Flags{Kind: FlagsFlat, List: tokens}
}

// NewPartitionedFlags returns a required/optional flag partition.
func NewPartitionedFlags(required, optional []string) *Flags {
	if required == nil {
		required = []string{}
	}
	if optional == nil {
		optional = []string{}
	}
	return &Flags{Kind: FlagsPartitioned, Required: required, Optional: optional}
}

// MarshalJSON encodes flat flags as an array and partitioned flags as an object.
func (flags Flags) MarshalJSON() ([]byte, error) {
	switch flags.Kind {
	case FlagsPartitioned:
		return json.Marshal(partitionedFlagsDocument{
			Required: nonNil(flags.Required),
			Optional: nonNil(flags.Optional),
		})
	default:
		return json.Marshal(nonNil(flags.List))
	}
}

// UnmarshalJSON restores the variant from the JSON shape.
func (flags *Flags) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errInvalidFlagsShape
	}
	switch trimmed[0] {
	case '[':
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return fmt.Errorf("decode flat flags: %w", err)
		}
		*flags = Flags{Kind: FlagsFlat, List: nonNil(list)}
		return nil
	case '{':
		var document partitionedFlagsDocument
		if err := json.Unmarshal(trimmed, &document); err != nil {
			return fmt.Errorf("decode partitioned flags: %w", err)
		}
		*flags = Flags{Kind: FlagsPartitioned, Required: nonNil(document.Required), Optional: nonNil(document.Optional)}
		return nil
	default:
		return fmt.Errorf("%w: %s", errInvalidFlagsShape, string(trimmed))
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
