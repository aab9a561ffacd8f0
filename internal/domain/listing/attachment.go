package listing

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Attachment is a stored file reference kept as JSON side data on a listing
// (certificates, equipment images, equipment documents).
type Attachment struct {
	Name string `json:"name,omitempty"`
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
}

// UnmarshalJSON accepts both the object form and legacy bare path strings.
func (a *Attachment) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var path string
		if err := json.Unmarshal(data, &path); err != nil {
			return err
		}
		*a = Attachment{Path: path}
		return nil
	}

	type plain Attachment
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Attachment(p)
	return nil
}

// DecodeAttachments parses a stored attachment list. Empty input and JSON null
// decode to an empty list. A JSON string holding the list is unwrapped once.
func DecodeAttachments(raw []byte) ([]Attachment, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return []Attachment{}, fmt.Errorf("error unmarshaling attachments: %w", err)
		}
		raw = bytes.TrimSpace([]byte(inner))
		if len(raw) > 0 && raw[0] == '"' {
			return []Attachment{}, fmt.Errorf("error unmarshaling attachments: nested string")
		}
	}

	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []Attachment{}, nil
	}

	var items []Attachment
	if err := json.Unmarshal(raw, &items); err != nil {
		return []Attachment{}, fmt.Errorf("error unmarshaling attachments: %w", err)
	}
	if items == nil {
		items = []Attachment{}
	}

	return items, nil
}
