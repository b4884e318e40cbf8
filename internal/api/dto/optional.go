package dto

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// OptionalID is a JSON field that distinguishes "absent" from "cleared".
// null, "" and "null" all clear the value.
type OptionalID struct {
	Set   bool
	Value string
}

func (o *OptionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "null" {
		s = ""
	}
	o.Value = s
	return nil
}

// UUID parses the carried id. A cleared or absent field yields nil.
func (o OptionalID) UUID() (*uuid.UUID, error) {
	if o.Value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(o.Value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
