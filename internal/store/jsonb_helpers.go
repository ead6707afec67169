package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StatementList is a tier's capability statements stored as a JSONB array.
// An empty list is written as [] so it reads back as an empty list.
type StatementList []string

// Value implements the driver.Valuer interface
func (l StatementList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Scan implements the sql.Scanner interface. NULL and JSON null both scan to
// an empty list.
func (l *StatementList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = StatementList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into tier statements", value)
	}

	var statements []string
	if err := json.Unmarshal(raw, &statements); err != nil {
		return fmt.Errorf("invalid tier statements %q: %w", raw, err)
	}
	if statements == nil {
		statements = []string{}
	}
	*l = StatementList(statements)
	return nil
}
