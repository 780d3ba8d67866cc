// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DecodeJSON parses a JSON document from r into a Document. The token stream
// is walked directly, rather than unmarshaling into map[string]interface{},
// so object key order survives the trip.
func DecodeJSON(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	doc, err := decodeJSONValue(dec)
	if err != nil {
		return nil, err
	}

	// Anything after the first value is not a single document.
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformed)
	}

	return doc, nil
}

// DecodeJSONBytes is DecodeJSON over a byte slice.
func DecodeJSONBytes(data []byte) (*Document, error) {
	return DecodeJSON(bytes.NewReader(data))
}

func decodeJSONValue(dec *json.Decoder) (*Document, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: empty document", ErrMalformed)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("%w: non-string object key %v", ErrMalformed, keyTok)
				}
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.set(key, val)
			}
			// Consume the closing '}'.
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			return obj, nil
		case '[':
			arr := NewArray()
			for dec.More() {
				val, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr.elems = append(arr.elems, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("%w: unexpected delimiter %v", ErrMalformed, t)
		}
	case string:
		return NewString(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", ErrMalformed, t.String())
		}
		return NewNumber(f), nil
	case bool:
		return NewBool(t), nil
	case nil:
		return Null(), nil
	default:
		return nil, fmt.Errorf("%w: unexpected token %v", ErrMalformed, tok)
	}
}

// DecodeYAML parses a YAML document into a Document. The yaml.Node tree keeps
// mapping order, which encoding into map[string]interface{} would lose.
func DecodeYAML(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformed)
	}

	return decodeYAMLNode(root.Content[0])
}

func decodeYAMLNode(n *yaml.Node) (*Document, error) {
	// Follow anchors so aliased subtrees compare by content.
	if n.Kind == yaml.AliasNode {
		return decodeYAMLNode(n.Alias)
	}

	switch n.Kind {
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("%w: non-scalar mapping key at line %d", ErrMalformed, keyNode.Line)
			}
			val, err := decodeYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.set(keyNode.Value, val)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := NewArray()
		for _, c := range n.Content {
			val, err := decodeYAMLNode(c)
			if err != nil {
				return nil, err
			}
			arr.elems = append(arr.elems, val)
		}
		return arr, nil
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return Null(), nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			return NewBool(b), nil
		case "!!int", "!!float":
			f, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad number %q at line %d", ErrMalformed, n.Value, n.Line)
			}
			return NewNumber(f), nil
		default:
			return NewString(n.Value), nil
		}
	default:
		return nil, fmt.Errorf("%w: unsupported node kind %d at line %d", ErrMalformed, n.Kind, n.Line)
	}
}
