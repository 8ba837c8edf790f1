package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexID is an identifier that clients send either as a JSON number or as a numeric
// string. Anything else fails to decode, which the handlers report as a 400.
type FlexID struct {
	Value uint64
	Set   bool
}

func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = FlexID{}
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*id = FlexID{}
			return nil
		}
		raw = s
	}

	value, err := ParseID(raw)
	if err != nil {
		return err
	}
	*id = FlexID{Value: value, Set: true}
	return nil
}

func (id FlexID) MarshalJSON() ([]byte, error) {
	if !id.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatUint(id.Value, 10)), nil
}

// NewFlexID returns a set FlexID.
func NewFlexID(v uint64) FlexID {
	return FlexID{Value: v, Set: true}
}

// ParseID parses a positive decimal identifier.
func ParseID(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return v, nil
}
