package questionnaire

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// AnswerKind tags the shape of a submitted answer value.
type AnswerKind int

const (
	AnswerNull AnswerKind = iota
	AnswerScalar
	AnswerList
	// AnswerComplex covers objects and lists holding non-scalar elements.
	// Such answers are stored verbatim but never match a branch.
	AnswerComplex
)

func (k AnswerKind) String() string {
	switch k {
	case AnswerScalar:
		return "scalar"
	case AnswerList:
		return "list"
	case AnswerComplex:
		return "complex"
	default:
		return "null"
	}
}

// Answer is the value a user submitted for one question.
//
// The zero value is a null answer. Answers keep their original JSON so that
// persisting and reloading a state does not change how they are rendered.
type Answer struct {
	kind   AnswerKind
	scalar string
	list   []string
	falsy  bool
	raw    json.RawMessage
}

// TextAnswer builds a scalar answer.
func TextAnswer(value string) Answer {
	return Answer{kind: AnswerScalar, scalar: value, falsy: value == ""}
}

// ListAnswer builds a list answer from scalar values.
func ListAnswer(values ...string) Answer {
	list := make([]string, len(values))
	copy(list, values)
	return Answer{kind: AnswerList, list: list, falsy: len(list) == 0}
}

// ParseAnswer decodes a raw JSON value into an Answer.
func ParseAnswer(data []byte) (Answer, error) {
	var a Answer
	if err := a.UnmarshalJSON(data); err != nil {
		return Answer{}, err
	}
	return a, nil
}

func (a Answer) Kind() AnswerKind { return a.kind }

// Scalar returns the scalar value for scalar answers.
func (a Answer) Scalar() (string, bool) {
	if a.kind != AnswerScalar {
		return "", false
	}
	return a.scalar, true
}

// Values returns the branchable values of the answer: the scalar itself, or
// every element of a list. Null and complex answers have none.
func (a Answer) Values() []string {
	switch a.kind {
	case AnswerScalar:
		return []string{a.scalar}
	case AnswerList:
		out := make([]string, len(a.list))
		copy(out, a.list)
		return out
	default:
		return nil
	}
}

// First returns the scalar value or the first list element.
func (a Answer) First() (string, bool) {
	switch a.kind {
	case AnswerScalar:
		return a.scalar, true
	case AnswerList:
		if len(a.list) == 0 {
			return "", false
		}
		return a.list[0], true
	default:
		return "", false
	}
}

// Truthy reports whether the answer counts as "answered" for follow-up
// injection. null, "", false, 0 and empty collections are falsy.
func (a Answer) Truthy() bool {
	if a.kind == AnswerNull {
		return false
	}
	return !a.falsy
}

// LooksLikeSerializedList reports whether a scalar answer holds a JSON list
// that was sent as a string, e.g. "[\"a\", \"b\"]".
func (a Answer) LooksLikeSerializedList() bool {
	if a.kind != AnswerScalar {
		return false
	}
	s := strings.TrimSpace(a.scalar)
	return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
}

// ExpandSerializedList turns a scalar holding a serialized list into a list
// answer. On failure the original answer is returned with the parse error so
// the caller can log it and keep the value as an opaque string.
func (a Answer) ExpandSerializedList() (Answer, error) {
	if !a.LooksLikeSerializedList() {
		return a, nil
	}
	var parsed Answer
	if err := parsed.UnmarshalJSON([]byte(strings.TrimSpace(a.scalar))); err != nil {
		return a, fmt.Errorf("parse serialized list answer: %w", err)
	}
	if parsed.kind != AnswerList {
		return a, fmt.Errorf("serialized list answer holds %s elements", parsed.kind)
	}
	parsed.raw = nil
	return parsed, nil
}

func (a Answer) String() string {
	switch a.kind {
	case AnswerScalar:
		return a.scalar
	case AnswerList:
		return strings.Join(a.list, ", ")
	case AnswerComplex:
		return string(a.raw)
	default:
		return ""
	}
}

// Equal compares the decoded values of two answers.
func (a Answer) Equal(b Answer) bool {
	if a.kind != b.kind || a.falsy != b.falsy {
		return false
	}
	switch a.kind {
	case AnswerScalar:
		return a.scalar == b.scalar
	case AnswerList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if a.list[i] != b.list[i] {
				return false
			}
		}
		return true
	case AnswerComplex:
		return bytes.Equal(a.raw, b.raw)
	default:
		return true
	}
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if len(a.raw) > 0 {
		out := make([]byte, len(a.raw))
		copy(out, a.raw)
		return out, nil
	}
	switch a.kind {
	case AnswerScalar:
		return json.Marshal(a.scalar)
	case AnswerList:
		if a.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.list)
	default:
		return []byte("null"), nil
	}
}

func (a *Answer) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		*a = Answer{}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("decode answer: %w", err)
	}

	raw := make(json.RawMessage, len(trimmed))
	copy(raw, trimmed)

	switch val := v.(type) {
	case nil:
		*a = Answer{}
	case string, bool, json.Number:
		s, falsy := scalarOf(val)
		*a = Answer{kind: AnswerScalar, scalar: s, falsy: falsy, raw: raw}
	case []any:
		list := make([]string, 0, len(val))
		for _, elem := range val {
			s, ok := elementOf(elem)
			if !ok {
				*a = Answer{kind: AnswerComplex, falsy: len(val) == 0, raw: raw}
				return nil
			}
			list = append(list, s)
		}
		*a = Answer{kind: AnswerList, list: list, falsy: len(list) == 0, raw: raw}
	case map[string]any:
		*a = Answer{kind: AnswerComplex, falsy: len(val) == 0, raw: raw}
	default:
		*a = Answer{kind: AnswerComplex, raw: raw}
	}
	return nil
}

func scalarOf(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, val == ""
	case bool:
		if val {
			return "true", false
		}
		return "false", true
	case json.Number:
		f, err := val.Float64()
		return val.String(), err == nil && f == 0
	}
	return "", true
}

func elementOf(v any) (string, bool) {
	switch v.(type) {
	case string, bool, json.Number:
		s, _ := scalarOf(v)
		return s, true
	}
	return "", false
}
