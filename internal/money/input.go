package money

import (
	"bytes"
	"encoding/json"
)

// Input is an amount exactly as the user typed it. It is parsed late so that a
// half-typed field never fails a request.
type Input string

func (in Input) Amount() Amount { return Parse(string(in)) }

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (in *Input) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*in = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*in = Input(s)
	default:
		*in = Input(data)
	}
	return nil
}
