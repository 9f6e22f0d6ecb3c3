// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is an identifier as it arrives from clients. Older clients send a
// bare string, others an object with "id" or the legacy "_id". Ref
// normalizes all of them so core code only ever sees ID.
type Ref struct {
	ID string
}

// UnmarshalJSON accepts "abc", {"id":"abc"}, {"_id":"abc"} and null.
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		r.ID = ""
		return nil
	}

	if data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}

	if data[0] == '{' {
		var obj struct {
			ID       *string `json:"id"`
			LegacyID *string `json:"_id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		switch {
		case obj.ID != nil && *obj.ID != "":
			r.ID = *obj.ID
		case obj.LegacyID != nil:
			r.ID = *obj.LegacyID
		default:
			r.ID = ""
		}
		return nil
	}

	return fmt.Errorf("invalid reference: %s", data)
}

// MarshalJSON always emits the bare string form.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}
