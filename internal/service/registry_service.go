// Package service contains application services.
package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ares-mcp/ares-mcp-server/internal/domain/registry"
	"github.com/ares-mcp/ares-mcp-server/internal/port/outbound"
)

// Registry API paths.
const (
	pathSubjects            = "/ekonomicke-subjekty"
	pathSubjectSearch       = "/ekonomicke-subjekty/vyhledat"
	pathLooseSearch         = "/ekonomicke-subjekty-vyhledat"
	pathCodebookSearch      = "/ciselniky-nazevniky/vyhledat"
	pathAddressSearch       = "/standardizovane-adresy/vyhledat"
	pathNotificationSearch  = "/notifikacni-davky/vyhledat"
	defaultExtractType      = "standard"
	registrySubjectsListKey = "ekonomickeSubjekty"
	registryTotalCountKey   = "pocetCelkem"
)

// RegistryService implements the registry operations on top of a
// RegistryRequester. Every operation returns indented JSON text and never
// fails: errors become {"error": "..."}.
type RegistryService struct {
	requester outbound.RegistryRequester
	logger    *slog.Logger
}

// NewRegistryService creates a new RegistryService.
func NewRegistryService(requester outbound.RegistryRequester, logger *slog.Logger) *RegistryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RegistryService{
		requester: requester,
		logger:    logger,
	}
}

// SearchSubjects runs the structured subject search and returns
// {totalCount, subjects}.
func (s *RegistryService) SearchSubjects(ctx context.Context, args map[string]any) string {
	filter, err := registry.DecodeSearchFilter(args)
	if err != nil {
		return registry.EncodeError(err)
	}

	result, err := s.requester.Do(ctx, http.MethodPost, pathSubjectSearch, nil, filter)
	if err != nil {
		return registry.EncodeError(err)
	}

	m, ok := result.(map[string]any)
	if !ok {
		return registry.Encode(result)
	}
	return registry.Encode(registry.StructuredSearchResult{
		TotalCount: m[registryTotalCountKey],
		Subjects:   registry.FormatSubjects(m[registrySubjectsListKey]),
	})
}

// FindSubject runs the loose GET search by identifier, name or address and
// returns {found, subjects}.
func (s *RegistryService) FindSubject(ctx context.Context, args map[string]any) string {
	query, err := registry.DecodeLooseQuery(args)
	if err != nil {
		return registry.EncodeError(err)
	}

	result, err := s.requester.Do(ctx, http.MethodGet, pathLooseSearch, query.Values(), nil)
	if err != nil {
		return registry.EncodeError(err)
	}

	m, ok := result.(map[string]any)
	if !ok {
		return registry.Encode(result)
	}
	if _, ok := m[registrySubjectsListKey]; !ok {
		return registry.Encode(result)
	}
	// found counts every listed entry, including ones that are not objects
	// and therefore have no summary.
	items, _ := m[registrySubjectsListKey].([]any)
	return registry.Encode(registry.SearchResult{
		Found:    len(items),
		Subjects: registry.FormatSubjects(items),
	})
}

// GetSubject looks up one subject and returns the flattened detail shape.
func (s *RegistryService) GetSubject(ctx context.Context, identifier string) string {
	result, err := s.lookup(ctx, identifier)
	if err != nil {
		return registry.EncodeError(err)
	}
	m, ok := result.(map[string]any)
	if !ok {
		return registry.Encode(result)
	}
	return registry.Encode(registry.FormatSubjectDetail(m))
}

// GetExtract returns the raw register extract of extractType for a subject.
// An empty extractType selects the standard extract.
func (s *RegistryService) GetExtract(ctx context.Context, identifier, extractType string) string {
	if extractType == "" {
		extractType = defaultExtractType
	}
	path := pathSubjects + "/" + url.PathEscape(identifier) + "/vypis-" + url.PathEscape(extractType)

	result, err := s.requester.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return registry.EncodeError(err)
	}
	return registry.Encode(result)
}

// SearchInRegistry runs a structured search inside one source register.
// Register-specific filter keys reach the registry unchanged. An unknown
// register code is reported without calling the registry.
func (s *RegistryService) SearchInRegistry(ctx context.Context, code string, args map[string]any) string {
	desc, ok := registry.LookupRegistry(code)
	if !ok {
		return registry.Encode(registry.NewUnknownRegistry(code))
	}

	body, err := registry.DecodeRegistryFilter(args)
	if err != nil {
		return registry.EncodeError(err)
	}

	result, err := s.requester.Do(ctx, http.MethodPost, desc.SearchPath(), nil, body)
	if err != nil {
		return registry.EncodeError(err)
	}
	return registry.Encode(registry.RegistryResult{Registry: desc, Data: result})
}

// GetFromRegistry looks up one subject inside one source register.
// An unknown register code is reported without calling the registry.
func (s *RegistryService) GetFromRegistry(ctx context.Context, code, identifier string) string {
	desc, ok := registry.LookupRegistry(code)
	if !ok {
		return registry.Encode(registry.NewUnknownRegistry(code))
	}

	result, err := s.requester.Do(ctx, http.MethodGet, desc.LookupPath(url.PathEscape(identifier)), nil, nil)
	if err != nil {
		return registry.EncodeError(err)
	}
	return registry.Encode(registry.RegistryResult{Registry: desc, Data: result})
}

// ValidateIdentifier checks the identifier's format and, only when the
// format is valid, whether the registry knows it.
func (s *RegistryService) ValidateIdentifier(ctx context.Context, identifier string) string {
	return registry.Encode(s.CheckIdentifier(ctx, identifier))
}

// CheckIdentifier is ValidateIdentifier returning the structured result.
// Any lookup failure, including transport errors, counts as not existing.
func (s *RegistryService) CheckIdentifier(ctx context.Context, identifier string) registry.IdentifierValidation {
	validFormat, reason := registry.ValidateIdentifierFormat(identifier)
	out := registry.IdentifierValidation{
		Identifier:  identifier,
		ValidFormat: validFormat,
		Reason:      reason,
	}
	if !validFormat {
		return out
	}

	_, err := s.lookup(ctx, identifier)
	var terr *registry.TransportError
	switch {
	case err == nil:
		out.ExistsInRegistry = true
	case errors.As(err, &terr) && terr.NotFound():
		s.logger.Debug("identifier not found in registry", "ico", identifier)
	default:
		s.logger.Warn("identifier lookup failed, reporting as not existing", "ico", identifier, "error", err)
	}
	out.Valid = out.ValidFormat && out.ExistsInRegistry
	return out
}

// SearchCodebooks forwards a codebook filter and returns the raw result.
func (s *RegistryService) SearchCodebooks(ctx context.Context, args map[string]any) string {
	return s.passthrough(ctx, pathCodebookSearch, args)
}

// SearchAddresses forwards a standardized-address filter and returns the raw
// result.
func (s *RegistryService) SearchAddresses(ctx context.Context, args map[string]any) string {
	return s.passthrough(ctx, pathAddressSearch, args)
}

// SearchNotifications forwards a notification-batch filter and returns the
// raw result.
func (s *RegistryService) SearchNotifications(ctx context.Context, args map[string]any) string {
	return s.passthrough(ctx, pathNotificationSearch, args)
}

func (s *RegistryService) lookup(ctx context.Context, identifier string) (any, error) {
	return s.requester.Do(ctx, http.MethodGet, pathSubjects+"/"+url.PathEscape(identifier), nil, nil)
}

func (s *RegistryService) passthrough(ctx context.Context, path string, args map[string]any) string {
	if args == nil {
		args = map[string]any{}
	}
	result, err := s.requester.Do(ctx, http.MethodPost, path, nil, args)
	if err != nil {
		return registry.EncodeError(err)
	}
	return registry.Encode(result)
}
