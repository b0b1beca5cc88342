package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/siherrmann/storygraph/helper"
)

// Metadata represents JSONB metadata stored in PostgreSQL
type Metadata map[string]interface{}

// NewMetadata converts any JSON serializable value (usually a struct) to Metadata.
func NewMetadata(v interface{}) (Metadata, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, helper.NewError("marshal metadata", err)
	}
	m := Metadata{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, helper.NewError("unmarshal metadata", err)
	}
	return m, nil
}

// Decode converts the metadata back into dst (a pointer).
func (m Metadata) Decode(dst interface{}) error {
	b, err := m.Marshal()
	if err != nil {
		return helper.NewError("marshal metadata", err)
	}
	return json.Unmarshal(b, dst)
}

// Value implements the driver.Valuer interface for database storage
func (m Metadata) Value() (driver.Value, error) {
	return m.Marshal()
}

// Scan implements the sql.Scanner interface for database retrieval
func (m *Metadata) Scan(value interface{}) error {
	return m.Unmarshal(value)
}

// Marshal converts Metadata to JSON bytes
func (m Metadata) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal converts JSON bytes or Metadata to Metadata
func (m *Metadata) Unmarshal(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	if s, ok := value.(Metadata); ok {
		*m = Metadata(s)
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, m)
}
