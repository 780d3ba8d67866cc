// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrMalformed is returned when a value presented as a Document violates the
// node-kind contract (anything other than object, array, string, number,
// bool or null).
var ErrMalformed = errors.New("malformed document value")

// Kind discriminates the three node variants of a Document tree.
type Kind int

const (
	KindScalar Kind = iota
	KindObject
	KindArray
)

// String implements fmt.Stringer for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "scalar"
	}
}

// Document is one node of an immutable structured-data tree. Objects keep
// their keys in first-seen order. Scalars hold string, float64, bool or nil;
// all numbers are held as float64 so 1 and 1.0 compare equal regardless of
// how the source serialized them.
type Document struct {
	kind   Kind
	keys   []string
	fields map[string]*Document
	elems  []*Document
	scalar interface{}
}

// NewObject returns an empty object node. Fields are added with set(), which
// is only reachable from the decoders; built documents are never mutated.
func NewObject() *Document {
	return &Document{kind: KindObject, fields: map[string]*Document{}}
}

// NewArray returns an array node over the given elements.
func NewArray(elems ...*Document) *Document {
	return &Document{kind: KindArray, elems: elems}
}

// NewString returns a string scalar.
func NewString(s string) *Document {
	return &Document{kind: KindScalar, scalar: s}
}

// NewNumber returns a numeric scalar.
func NewNumber(f float64) *Document {
	return &Document{kind: KindScalar, scalar: f}
}

// NewBool returns a boolean scalar.
func NewBool(b bool) *Document {
	return &Document{kind: KindScalar, scalar: b}
}

// Null returns the null scalar.
func Null() *Document {
	return &Document{kind: KindScalar, scalar: nil}
}

// Kind returns the node variant.
func (d *Document) Kind() Kind { return d.kind }

// Keys returns an object's keys in first-seen order. Nil for non-objects.
func (d *Document) Keys() []string { return d.keys }

// Field returns the value stored under key, if present.
func (d *Document) Field(key string) (*Document, bool) {
	v, ok := d.fields[key]
	return v, ok
}

// Len returns the number of elements of an array node.
func (d *Document) Len() int { return len(d.elems) }

// Elem returns the i-th element of an array node.
func (d *Document) Elem(i int) *Document { return d.elems[i] }

// Scalar returns the scalar payload (string, float64, bool or nil).
func (d *Document) Scalar() interface{} { return d.scalar }

// set appends a field to an object, keeping key order. Re-setting an existing
// key replaces the value without duplicating the key.
func (d *Document) set(key string, value *Document) {
	if _, exists := d.fields[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.fields[key] = value
}

// FromValue converts an already-decoded generic value (the
// map[string]interface{} / []interface{} / scalar shapes produced by
// encoding/json and friends) into a Document. Map key order is not
// recoverable from a Go map, so keys are sorted; use DecodeJSON or DecodeYAML
// when source order matters. Anything outside the node-kind contract yields
// ErrMalformed.
func FromValue(v interface{}) (*Document, error) {
	switch t := v.(type) {
	case nil:
		return Null(), nil
	case string:
		return NewString(t), nil
	case bool:
		return NewBool(t), nil
	case float64:
		return NewNumber(t), nil
	case float32:
		return NewNumber(float64(t)), nil
	case int:
		return NewNumber(float64(t)), nil
	case int64:
		return NewNumber(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", ErrMalformed, t.String())
		}
		return NewNumber(f), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			child, err := FromValue(t[k])
			if err != nil {
				return nil, err
			}
			obj.set(k, child)
		}
		return obj, nil
	case []interface{}:
		elems := make([]*Document, 0, len(t))
		for _, e := range t {
			child, err := FromValue(e)
			if err != nil {
				return nil, err
			}
			elems = append(elems, child)
		}
		return NewArray(elems...), nil
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrMalformed, v)
	}
}

// Value converts the Document back to the generic shapes used by structured
// encoders (map[string]interface{}, []interface{}, scalars). Object key order
// is lost; use MarshalJSON when order must survive.
func (d *Document) Value() interface{} {
	switch d.kind {
	case KindObject:
		m := make(map[string]interface{}, len(d.keys))
		for _, k := range d.keys {
			m[k] = d.fields[k].Value()
		}
		return m
	case KindArray:
		s := make([]interface{}, len(d.elems))
		for i, e := range d.elems {
			s[i] = e.Value()
		}
		return s
	default:
		return d.scalar
	}
}

// Equal reports structural equality: scalars equal by type-agnostic numeric
// value, objects equal by key set and per-key equality, arrays equal as
// multisets of element subtrees. This is exactly the relation under which the
// differ produces an empty report.
func Equal(a, b *Document) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindScalar:
		return scalarEqual(a.scalar, b.scalar)
	case KindObject:
		if len(a.keys) != len(b.keys) {
			return false
		}
		for _, k := range a.keys {
			bv, ok := b.fields[k]
			if !ok || !Equal(a.fields[k], bv) {
				return false
			}
		}
		return true
	default: // KindArray
		if len(a.elems) != len(b.elems) {
			return false
		}
		matched := make([]bool, len(b.elems))
		for _, ae := range a.elems {
			found := false
			for j, be := range b.elems {
				if !matched[j] && Equal(ae, be) {
					matched[j] = true
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	}
}

// UnmarshalJSON is the inverse of MarshalJSON, delegating to the
// order-preserving decoder.
func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := DecodeJSONBytes(data)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

func scalarEqual(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	}
	return false
}

// MarshalJSON serializes the tree with object keys in their original order.
func (d *Document) MarshalJSON() ([]byte, error) {
	switch d.kind {
	case KindObject:
		buf := []byte{'{'}
		for i, k := range d.keys {
			if i > 0 {
				buf = append(buf, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, err
			}
			vb, err := d.fields[k].MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, kb...)
			buf = append(buf, ':')
			buf = append(buf, vb...)
		}
		return append(buf, '}'), nil
	case KindArray:
		buf := []byte{'['}
		for i, e := range d.elems {
			if i > 0 {
				buf = append(buf, ',')
			}
			eb, err := e.MarshalJSON()
			if err != nil {
				return nil, err
			}
			buf = append(buf, eb...)
		}
		return append(buf, ']'), nil
	default:
		switch s := d.scalar.(type) {
		case float64:
			// Avoid the float-looking "1" vs "1.000000" churn on round trips.
			return []byte(strconv.FormatFloat(s, 'g', -1, 64)), nil
		default:
			return json.Marshal(d.scalar)
		}
	}
}
