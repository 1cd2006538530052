// Package registry contains the domain model of the business registry:
// identifier validation, the register table, search filters, response
// shaping and the error taxonomy.
package registry

import (
	"bytes"
	"encoding/json"
)

// ErrorResult is the uniform failure shape returned by every operation.
type ErrorResult struct {
	Error string `json:"error"`
}

// RegistryResult wraps a register-scoped response with its descriptor.
type RegistryResult struct {
	Registry Descriptor `json:"registry"`
	Data     any        `json:"data"`
}

// SearchResult is the loose subject search response.
type SearchResult struct {
	Found    int              `json:"found"`
	Subjects []SubjectSummary `json:"subjects"`
}

// StructuredSearchResult is the structured subject search response.
type StructuredSearchResult struct {
	TotalCount any              `json:"totalCount"`
	Subjects   []SubjectSummary `json:"subjects"`
}

// Encode renders v as indented JSON. Non-ASCII text is kept as-is and HTML
// characters are not escaped. If v cannot be encoded the error shape is
// returned instead.
func Encode(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return EncodeError(err)
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}

// EncodeError renders the uniform failure shape for err.
func EncodeError(err error) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	_ = enc.Encode(ErrorResult{Error: err.Error()})
	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
