package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Reactions maps an emoji to how many times it was added. Counts are always positive;
// a key whose count would reach zero is removed instead.
type Reactions map[string]int

// Add returns a copy with emoji incremented
func (r Reactions) Add(emoji string) Reactions {
	out := r.clone()
	out[emoji]++
	return out
}

// Remove returns a copy with emoji decremented, dropping the key at zero.
// Removing an emoji that is not present is a no-op.
func (r Reactions) Remove(emoji string) Reactions {
	out := r.clone()
	if count, ok := out[emoji]; ok && count > 0 {
		if count == 1 {
			delete(out, emoji)
		} else {
			out[emoji] = count - 1
		}
	}
	return out
}

func (r Reactions) clone() Reactions {
	out := make(Reactions, len(r)+1)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Value implements driver.Valuer; nil encodes as {}
func (r Reactions) Value() (driver.Value, error) {
	if r == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]int(r))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON/JSONB columns
func (r *Reactions) Scan(value interface{}) error {
	raw, err := jsonBytes(value)
	if err != nil {
		return err
	}
	m := Reactions{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("failed to decode reactions: %w", err)
		}
	}
	*r = m
	return nil
}

func (Reactions) GormDataType() string { return "json" }

func (Reactions) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonColumnType(db)
}

// MarshalJSON keeps an empty map as {} rather than null
func (r Reactions) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]int(r))
}

// StringList is an ordered list of strings stored as a JSON array, which keeps
// hashtag order and works the same on postgres and sqlite.
type StringList []string

// Value implements driver.Valuer; nil encodes as []
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON/JSONB columns
func (l *StringList) Scan(value interface{}) error {
	raw, err := jsonBytes(value)
	if err != nil {
		return err
	}
	list := StringList{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &list); err != nil {
			return fmt.Errorf("failed to decode string list: %w", err)
		}
	}
	*l = list
	return nil
}

func (StringList) GormDataType() string { return "json" }

func (StringList) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	return jsonColumnType(db)
}

// MarshalJSON keeps an empty list as [] rather than null
func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func jsonColumnType(db *gorm.DB) string {
	if db.Dialector.Name() == "postgres" {
		return "JSONB"
	}
	return "JSON"
}

func jsonBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported JSON column type %T", value)
	}
}
