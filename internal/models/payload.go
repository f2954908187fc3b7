package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// ListPayload is a JSON list column as it was found in storage. Older clients wrote
// the list as a serialized string instead of a JSON array, so exactly one of the two
// fields is set after parsing.
type ListPayload[T any] struct {
	Structured []T
	RawText    *string
}

// ParseListPayload classifies raw column bytes without normalising them.
func ParseListPayload[T any](raw []byte) (ListPayload[T], error) {
	var payload ListPayload[T]

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return payload, nil
	}

	switch trimmed[0] {
	case '[':
		var items datatypes.JSONSlice[T]
		if err := items.Scan([]byte(trimmed)); err != nil {
			return payload, fmt.Errorf("failed to decode structured list: %w", err)
		}
		payload.Structured = []T(items)
		if payload.Structured == nil {
			payload.Structured = []T{}
		}
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return payload, fmt.Errorf("failed to decode text list: %w", err)
		}
		payload.RawText = &text
	default:
		return payload, fmt.Errorf("unexpected list payload starting with %q", trimmed[0])
	}

	return payload, nil
}

// Normalize turns either variant into a typed slice.
func (p ListPayload[T]) Normalize() ([]T, error) {
	if p.RawText == nil {
		return p.Structured, nil
	}

	text := bytes.TrimSpace([]byte(*p.RawText))
	if len(text) == 0 {
		return []T{}, nil
	}

	var out []T
	if err := json.Unmarshal(text, &out); err != nil {
		return nil, fmt.Errorf("failed to decode serialized list: %w", err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

func scanList[T any](src interface{}) ([]T, error) {
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		raw = bytes.Clone(v)
	case string:
		raw = []byte(v)
	default:
		return nil, fmt.Errorf("unsupported list column type %T", src)
	}

	payload, err := ParseListPayload[T](raw)
	if err != nil {
		return nil, err
	}
	return payload.Normalize()
}

// listValue always writes the structured array form.
func listValue[T any](items []T) (driver.Value, error) {
	if items == nil {
		items = []T{}
	}
	v, err := datatypes.NewJSONSlice(items).Value()
	if err != nil {
		return nil, err
	}
	if b, ok := v.([]byte); ok {
		return string(b), nil
	}
	return v, nil
}

// Questions is the jsonb column holding a quiz's ordered questions.
type Questions []Question

func (q *Questions) Scan(src interface{}) error {
	items, err := scanList[Question](src)
	if err != nil {
		return fmt.Errorf("questions: %w", err)
	}
	*q = items
	return nil
}

func (q Questions) Value() (driver.Value, error) {
	return listValue([]Question(q))
}

// Answers is the jsonb column holding a submission's answers.
type Answers []QuizAnswer

func (a *Answers) Scan(src interface{}) error {
	items, err := scanList[QuizAnswer](src)
	if err != nil {
		return fmt.Errorf("answers: %w", err)
	}
	*a = items
	return nil
}

func (a Answers) Value() (driver.Value, error) {
	return listValue([]QuizAnswer(a))
}
