// Package outbound defines the outbound port interfaces for reaching the
// business registry.
package outbound

import (
	"context"
	"net/url"
)

// RegistryRequester is the outbound port for issuing one registry API call.
// Adapters apply rate limiting and map failures onto *registry.TransportError.
type RegistryRequester interface {
	// Do sends method to path with query parameters and an optional JSON body.
	// path is relative to the registry base URL and starts with "/".
	// On success it returns the decoded JSON body, or {"text": body} when the
	// response is not JSON.
	Do(ctx context.Context, method, path string, query url.Values, body any) (any, error)
}
