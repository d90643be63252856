package httpadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var errFormValueType = errors.New("expected a string or a number")

// formValue accepts a JSON string or number and keeps its text, so typed
// clients and raw form submissions go through the same validation.
type formValue string

func (v *formValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = formValue(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errFormValueType
	}
	*v = formValue(n.String())
	return nil
}

// historyValue accepts the comma separated text field or a JSON array of ids.
type historyValue string

func (v *historyValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		var single formValue
		if err := single.UnmarshalJSON(data); err != nil {
			return err
		}
		*v = historyValue(single)
		return nil
	}

	var items []formValue
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, string(item))
	}
	*v = historyValue(strings.Join(parts, ","))
	return nil
}
