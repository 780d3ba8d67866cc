// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hexilium/swagger-api-compare/internal/document"
)

// Kind classifies a single structural change.
type Kind int

const (
	Added Kind = iota
	Removed
	ValueChanged
	TypeChanged
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case ValueChanged:
		return "value-changed"
	default:
		return "type-changed"
	}
}

// MarshalJSON persists the kind as its readable name.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts the readable names written by MarshalJSON.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "added":
		*k = Added
	case "removed":
		*k = Removed
	case "value-changed":
		*k = ValueChanged
	case "type-changed":
		*k = TypeChanged
	default:
		return fmt.Errorf("unknown diff kind %q", s)
	}
	return nil
}

// Step is one hop from a document root: an object key or an array index.
type Step struct {
	key     string
	index   int
	indexed bool
}

// Key constructs an object-key step.
func Key(k string) Step { return Step{key: k} }

// Index constructs an array-index step.
func Index(i int) Step { return Step{index: i, indexed: true} }

// IsIndex reports whether the step addresses an array element.
func (s Step) IsIndex() bool { return s.indexed }

// Value returns the key or index the step addresses.
func (s Step) Value() interface{} {
	if s.indexed {
		return s.index
	}
	return s.key
}

// Path addresses the differing node from the document root.
type Path []Step

// String renders the path in the familiar dotted/bracketed form, e.g.
// "paths[2].get".
func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if s.indexed {
			fmt.Fprintf(&b, "[%d]", s.index)
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.key)
	}
	return b.String()
}

// MarshalJSON persists the path as a heterogeneous array of keys and indices,
// which keeps keys containing dots unambiguous.
func (p Path) MarshalJSON() ([]byte, error) {
	raw := make([]interface{}, len(p))
	for i, s := range p {
		raw[i] = s.Value()
	}
	return json.Marshal(raw)
}

// UnmarshalJSON reads the array form written by MarshalJSON.
func (p *Path) UnmarshalJSON(data []byte) error {
	var raw []interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	steps := make(Path, 0, len(raw))
	for _, v := range raw {
		switch t := v.(type) {
		case string:
			steps = append(steps, Key(t))
		case float64:
			steps = append(steps, Index(int(t)))
		default:
			return fmt.Errorf("unsupported path step %v", v)
		}
	}
	*p = steps
	return nil
}

// Entry is one structural change between two documents. OldValue is nil for
// additions, NewValue is nil for removals.
type Entry struct {
	Kind     Kind               `json:"kind"`
	Path     Path               `json:"path"`
	OldValue *document.Document `json:"old_value,omitempty"`
	NewValue *document.Document `json:"new_value,omitempty"`
}

// Report is the ordered set of changes between two documents. A nil/empty
// report means the documents are structurally equal.
type Report []Entry

// Empty reports whether the comparison found no differences.
func (r Report) Empty() bool { return len(r) == 0 }

// Compare walks the two trees depth-first and returns every structural
// change. It is a total function with no side effects: well-formed documents
// never produce an error. Entry order follows the key order of the new
// document, with removals appended after at each level.
func Compare(old, new *document.Document) Report {
	var report Report
	compare(nil, old, new, &report)
	return report
}

func compare(path Path, old, new *document.Document, out *Report) {
	if old.Kind() != new.Kind() {
		// Different node variants. Report one change and stop descending; the
		// nested content would only repeat the same story.
		*out = append(*out, Entry{Kind: TypeChanged, Path: clonePath(path), OldValue: old, NewValue: new})
		return
	}

	switch old.Kind() {
	case document.KindScalar:
		compareScalars(path, old, new, out)
	case document.KindObject:
		compareObjects(path, old, new, out)
	case document.KindArray:
		compareArrays(path, old, new, out)
	}
}

func compareScalars(path Path, old, new *document.Document, out *Report) {
	ok, on := old.Scalar(), new.Scalar()
	if scalarType(ok) != scalarType(on) {
		*out = append(*out, Entry{Kind: TypeChanged, Path: clonePath(path), OldValue: old, NewValue: new})
		return
	}
	if !scalarValueEqual(ok, on) {
		*out = append(*out, Entry{Kind: ValueChanged, Path: clonePath(path), OldValue: old, NewValue: new})
	}
}

func compareObjects(path Path, old, new *document.Document, out *Report) {
	// New document's key order drives the walk.
	for _, k := range new.Keys() {
		nv, _ := new.Field(k)
		if ov, ok := old.Field(k); ok {
			compare(append(path, Key(k)), ov, nv, out)
		} else {
			*out = append(*out, Entry{Kind: Added, Path: clonePath(append(path, Key(k))), NewValue: nv})
		}
	}

	// Keys gone from the new document trail the rest.
	for _, k := range old.Keys() {
		if _, ok := new.Field(k); !ok {
			ov, _ := old.Field(k)
			*out = append(*out, Entry{Kind: Removed, Path: clonePath(append(path, Key(k))), OldValue: ov})
		}
	}
}

// compareArrays treats both arrays as multisets and pairs elements by exact
// structural equality. Equality is an equivalence relation, so greedy
// first-unmatched pairing already yields a maximum matching. Elements with no
// exact twin are reported as purely added or purely removed; no fuzzy pairing
// of "almost equal" elements is attempted, which keeps reordered
// heterogeneous arrays deterministic.
func compareArrays(path Path, old, new *document.Document, out *Report) {
	usedOld := make([]bool, old.Len())
	matchedNew := make([]bool, new.Len())

	for i := 0; i < new.Len(); i++ {
		for j := 0; j < old.Len(); j++ {
			if !usedOld[j] && document.Equal(new.Elem(i), old.Elem(j)) {
				usedOld[j] = true
				matchedNew[i] = true
				break
			}
		}
	}

	for i := 0; i < new.Len(); i++ {
		if !matchedNew[i] {
			*out = append(*out, Entry{Kind: Added, Path: clonePath(append(path, Index(i))), NewValue: new.Elem(i)})
		}
	}
	for j := 0; j < old.Len(); j++ {
		if !usedOld[j] {
			*out = append(*out, Entry{Kind: Removed, Path: clonePath(append(path, Index(j))), OldValue: old.Elem(j)})
		}
	}
}

func scalarType(v interface{}) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "bool"
	case float64:
		return "number"
	default:
		return "null"
	}
}

func scalarValueEqual(a, b interface{}) bool {
	// Callers have already established matching scalar types.
	return a == b
}

// clonePath detaches an entry's path from the shared walk buffer.
func clonePath(p Path) Path {
	return append(Path(nil), p...)
}
