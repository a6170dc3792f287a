package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString decodes a JSON string or number into its text form. JSON-server
// style backends assign numeric ids and users sometimes store numeric
// quantities; both arrive here as text. It always encodes as a JSON string.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the text form
func (f FlexString) String() string {
	return string(f)
}
