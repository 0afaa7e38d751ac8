package server

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
)

//go:embed openapi.json
var openAPIDocument []byte

type openAPIServer struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// openAPIFor returns the embedded document with a servers entry naming the
// address the client reached. The embedded bytes are never modified.
func openAPIFor(r *http.Request) ([]byte, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(openAPIDocument, &doc); err != nil {
		return nil, fmt.Errorf("decode openapi document: %w", err)
	}
	servers, err := json.Marshal([]openAPIServer{{URL: requestBaseURL(r), Description: "This server"}})
	if err != nil {
		return nil, fmt.Errorf("encode openapi servers: %w", err)
	}
	doc["servers"] = servers
	return json.Marshal(doc)
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	switch proto := r.Header.Get("X-Forwarded-Proto"); proto {
	case "http", "https":
		scheme = proto
	}
	return scheme + "://" + r.Host
}
