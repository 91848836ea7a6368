package reconcile

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"collection-merge/core/utils"
)

// AttributeKind identifies the shape of an Attribute.
type AttributeKind string

const (
	KindPlainText     AttributeKind = "plain_text"
	KindURL           AttributeKind = "url"
	KindMultilineText AttributeKind = "multiline_text"
	KindNumber        AttributeKind = "number"
	KindSingleChoice  AttributeKind = "single_choice"
	KindMultiChoice   AttributeKind = "multi_choice"
	// KindUnsupported marks a source shape the engine does not read.
	KindUnsupported AttributeKind = "unsupported"
)

// Attribute is a typed item property. Only the fields of its Kind are set.
type Attribute struct {
	Kind AttributeKind `json:"kind"`

	// Value holds plain text, a URL, or the label of a single choice.
	Value string `json:"value,omitempty"`

	// Runs holds the text runs of a multiline (or title) value.
	Runs []string `json:"runs,omitempty"`

	// Number is nil when the numeric property is empty.
	Number *float64 `json:"number,omitempty"`

	// Labels holds the labels of a multi choice.
	Labels []string `json:"labels,omitempty"`

	// Source is the original type name of an unsupported value.
	Source string `json:"source,omitempty"`
}

func PlainText(s string) Attribute { return Attribute{Kind: KindPlainText, Value: s} }

func URL(s string) Attribute { return Attribute{Kind: KindURL, Value: s} }

func MultilineText(runs ...string) Attribute { return Attribute{Kind: KindMultilineText, Runs: runs} }

func Number(v float64) Attribute { return Attribute{Kind: KindNumber, Number: &v} }

// NullNumber is a numeric property without a value.
func NullNumber() Attribute { return Attribute{Kind: KindNumber} }

// SingleChoice returns a choice attribute; an empty label means unset.
func SingleChoice(label string) Attribute { return Attribute{Kind: KindSingleChoice, Value: label} }

func MultiChoice(labels ...string) Attribute { return Attribute{Kind: KindMultiChoice, Labels: labels} }

// Unsupported records a property whose shape is not recognized.
func Unsupported(source string) Attribute { return Attribute{Kind: KindUnsupported, Source: source} }

// UnmarshalJSON decodes an attribute. A kind the engine does not know, or a
// missing one, decodes as unsupported with the original kind in Source.
func (a *Attribute) UnmarshalJSON(data []byte) error {
	type plain Attribute
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	attr := Attribute(v)
	if !attr.Kind.known() {
		source := string(attr.Kind)
		if source == "" {
			source = "unknown"
		}
		attr = Unsupported(source)
	}
	*a = attr
	return nil
}

func (k AttributeKind) known() bool {
	switch k {
	case KindPlainText, KindURL, KindMultilineText, KindNumber,
		KindSingleChoice, KindMultiChoice, KindUnsupported:
		return true
	}
	return false
}

// Text renders the attribute as plain text. The boolean is false when the
// attribute carries no usable text.
func (a Attribute) Text() (string, bool) {
	switch a.Kind {
	case KindPlainText, KindURL, KindSingleChoice:
		return a.Value, a.Value != ""
	case KindMultilineText:
		s := strings.TrimSpace(strings.Join(a.Runs, ""))
		return s, s != ""
	case KindNumber:
		if a.Number == nil {
			return "", false
		}
		return strconv.FormatFloat(*a.Number, 'f', -1, 64), true
	case KindMultiChoice:
		s := strings.Join(a.Labels, ", ")
		return s, s != ""
	default:
		return "", false
	}
}

// Field is a named attribute.
type Field struct {
	Name  string
	Value Attribute
}

// Attributes is an ordered, case-insensitively addressable set of fields.
// The zero value is empty and ready to use.
type Attributes struct {
	fields []Field
	index  foldIndex
}

// NewAttributes builds an attribute set. Field names are case-folded once here.
// When two names fold to the same key, the later field is the one looked up.
func NewAttributes(fields ...Field) Attributes {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return Attributes{
		fields: append([]Field(nil), fields...),
		index:  newFoldIndex(names),
	}
}

// Len returns the number of fields.
func (a Attributes) Len() int {
	return len(a.fields)
}

// Fields returns a copy of the fields in source order.
func (a Attributes) Fields() []Field {
	return append([]Field(nil), a.fields...)
}

// Get returns the attribute with the given name, compared case-insensitively.
func (a Attributes) Get(name string) (Attribute, bool) {
	i, ok := a.index.resolve([]string{name})
	if !ok {
		return Attribute{}, false
	}
	return a.fields[i].Value, true
}

// Text returns the text of the first candidate field that renders non-empty
// text. Candidates are tried in order; later candidates are not consulted once
// one succeeds.
func (a Attributes) Text(candidates ...string) (string, bool) {
	for _, c := range candidates {
		attr, ok := a.Get(c)
		if !ok {
			continue
		}
		if s, ok := attr.Text(); ok {
			return s, true
		}
	}
	return "", false
}

// MarshalJSON encodes the fields as a JSON object in source order.
func (a Attributes) MarshalJSON() ([]byte, error) {
	names := make([]string, len(a.fields))
	values := make([]any, len(a.fields))
	for i, f := range a.fields {
		names[i] = f.Name
		values[i] = f.Value
	}
	return utils.EncodeOrderedObject(names, values)
}

// UnmarshalJSON decodes a JSON object keeping its key order.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	var fields []Field
	err := utils.WalkObject(data, func(key string, raw json.RawMessage) error {
		var attr Attribute
		if err := json.Unmarshal(raw, &attr); err != nil {
			return fmt.Errorf("attribute %q: %w", key, err)
		}
		fields = append(fields, Field{Name: key, Value: attr})
		return nil
	})
	if err != nil {
		return err
	}
	*a = NewAttributes(fields...)
	return nil
}
