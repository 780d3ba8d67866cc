// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/hexilium/swagger-api-compare/internal/document"
	"github.com/hexilium/swagger-api-compare/internal/log"
)

// maxDocumentSize caps fetched bodies. API descriptions run to a few MB at
// the very worst; anything bigger is a misdirected URL.
const maxDocumentSize = 64 << 20

// Loader fetches and decodes documents. The zero value is not usable; call
// New.
type Loader struct {
	client *retryablehttp.Client
}

// New builds a Loader. Transient HTTP failures retry with backoff; how many
// times is the only knob callers have needed so far.
func New(retries int) *Loader {
	client := retryablehttp.NewClient()
	client.RetryMax = retries
	client.Logger = nil // apex owns logging; see below
	client.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, attempt int) {
		if attempt > 0 {
			log.Debugf("retrying fetch: url=%s attempt=%d", req.URL, attempt)
		}
	}
	return &Loader{client: client}
}

// Load reads a document from an http(s) URL or a filesystem path and decodes
// it. JSON and YAML serializations are both accepted; which decoder runs is
// chosen from the content type or file extension, falling back to sniffing.
func (l *Loader) Load(ctx context.Context, source string) (*document.Document, error) {
	var body []byte
	var contentType string
	var err error

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		body, contentType, err = l.fetch(ctx, source)
	} else {
		body, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", source, err)
	}

	doc, err := decode(body, source, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", source, err)
	}
	return doc, nil
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, "", err
	}
	log.Debugf("fetched document: url=%s bytes=%d", url, len(body))

	return body, resp.Header.Get("Content-Type"), nil
}

func decode(body []byte, source, contentType string) (*document.Document, error) {
	if isYAML(source, contentType, body) {
		return document.DecodeYAML(body)
	}
	return document.DecodeJSONBytes(body)
}

// isYAML decides which decoder to run. JSON is the overwhelmingly common
// serialization, so it is the fallback.
func isYAML(source, contentType string, body []byte) bool {
	lower := strings.ToLower(source)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return true
	}
	if strings.Contains(contentType, "yaml") {
		return true
	}
	if strings.HasSuffix(lower, ".json") || strings.Contains(contentType, "json") {
		return false
	}

	trimmed := strings.TrimLeft(string(body), " \t\r\n")
	return trimmed != "" && trimmed[0] != '{' && trimmed[0] != '['
}

// Validate applies the light well-formedness check the rest of the pipeline
// assumes: the top level is an object declaring a swagger or openapi version.
// Full schema validation belongs to an external validator, not here.
func Validate(doc *document.Document) error {
	if doc.Kind() != document.KindObject {
		return fmt.Errorf("document root is %s, expected object", doc.Kind())
	}
	if _, ok := doc.Field("swagger"); ok {
		return nil
	}
	if _, ok := doc.Field("openapi"); ok {
		return nil
	}
	return fmt.Errorf("document declares neither swagger nor openapi version")
}
