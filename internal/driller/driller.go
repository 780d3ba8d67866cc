// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package driller

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/hexilium/swagger-api-compare/internal/document"
)

var segmentRe = regexp.MustCompile(`^(.+?)(\[(\d+)?\])?$`)

// Drill navigates a document using a flexible dot path supporting array
// indices ("paths", "servers[0]", "components.schemas.Pet"). It returns the
// addressed sub-document, or an error when the path matches nothing.
func Drill(doc *document.Document, path string) (*document.Document, error) {
	if path == "" {
		return doc, nil
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize document: %w", err)
	}

	result := navigate(string(raw), path)
	if !result.Exists() {
		return nil, fmt.Errorf("path %q matches nothing", path)
	}

	sub, err := document.DecodeJSONBytes([]byte(result.Raw))
	if err != nil {
		return nil, fmt.Errorf("path %q: %w", path, err)
	}
	return sub, nil
}

// navigate resolves the path one dot-segment at a time against gjson. Keys
// are matched literally so swagger path keys like "/pets" never collide with
// gjson's own query syntax.
func navigate(jsonData string, path string) gjson.Result {
	current := gjson.Parse(jsonData)

	for _, p := range strings.Split(path, ".") {
		matches := segmentRe.FindStringSubmatch(p)
		if len(matches) == 0 {
			return gjson.Result{}
		}

		key := matches[1]
		index := -1
		if matches[3] != "" {
			i, err := strconv.Atoi(matches[3])
			if err != nil {
				return gjson.Result{}
			}
			index = i
		}

		if !current.IsObject() {
			return gjson.Result{}
		}

		var val gjson.Result
		current.ForEach(func(k, v gjson.Result) bool {
			if k.String() == key {
				val = v
				return false
			}
			return true
		})
		if !val.Exists() {
			return gjson.Result{}
		}

		if index >= 0 {
			if !val.IsArray() {
				return gjson.Result{}
			}
			arr := val.Array()
			if index >= len(arr) {
				return gjson.Result{}
			}
			val = arr[index]
		}

		current = val
	}

	return current
}
