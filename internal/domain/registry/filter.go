package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultLimit is the page size used when the caller does not supply one.
const DefaultLimit = 20

// MaxLimit is the largest page size the registry accepts.
const MaxLimit = 200

// MaxActivityCodes bounds the number of CZ-NACE codes in one search.
const MaxActivityCodes = 5

// SortOrders lists the accepted sort tokens.
var SortOrders = []string{"ICO", "ICO_DESC", "OBCHODNI_JMENO", "OBCHODNI_JMENO_DESC"}

// StringList is a list of strings that also accepts a single JSON string,
// which is normalized to a one-element list.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		if one == "" {
			*l = nil
		} else {
			*l = StringList{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.New("expected a string or a list of strings")
	}
	*l = many
	return nil
}

// AddressFilter narrows a search to a structured registered-office address.
// Field names follow the registry's wire format.
type AddressFilter struct {
	MunicipalityPartCode       *int   `json:"kodCastiObce,omitempty" validate:"omitempty,min=1,max=999999"`
	AdministrativeDistrictCode *int   `json:"kodSpravnihoObvodu,omitempty" validate:"omitempty,min=1,max=999"`
	CityDistrictCode           *int   `json:"kodMestskeCastiObvodu,omitempty" validate:"omitempty,min=1,max=999999"`
	StreetCode                 *int   `json:"kodUlice,omitempty" validate:"omitempty,min=1,max=9999999"`
	BuildingNumber             *int   `json:"cisloDomovni,omitempty" validate:"omitempty,min=1,max=9999"`
	MunicipalityCode           *int   `json:"kodObce,omitempty" validate:"omitempty,min=1,max=999999"`
	OrientationNumber          *int   `json:"cisloOrientacni,omitempty" validate:"omitempty,min=1,max=999"`
	OrientationLetter          string `json:"cisloOrientacniPismeno,omitempty" validate:"omitempty,len=1"`
	Text                       string `json:"textovaAdresa,omitempty" validate:"omitempty,max=1000"`
}

// IsEmpty reports whether no field is set.
func (a *AddressFilter) IsEmpty() bool {
	return a == nil || *a == AddressFilter{}
}

// SearchFilter is the structured subject search request. Field names follow
// the registry's wire format so the filter marshals directly into the body.
type SearchFilter struct {
	Offset       *int           `json:"start,omitempty" validate:"omitempty,min=0"`
	Limit        *int           `json:"pocet,omitempty" validate:"omitempty,min=0,max=200"`
	Sort         StringList     `json:"razeni,omitempty" validate:"omitempty,dive,oneof=ICO ICO_DESC OBCHODNI_JMENO OBCHODNI_JMENO_DESC"`
	Identifiers  StringList     `json:"ico,omitempty" validate:"omitempty,dive,ico"`
	BusinessName string         `json:"obchodniJmeno,omitempty" validate:"omitempty,max=1000"`
	Address      *AddressFilter `json:"sidlo,omitempty" validate:"omitempty"`
	LegalForms   StringList     `json:"pravniForma,omitempty"`
	TaxOffices   StringList     `json:"financniUrad,omitempty"`
	Activities   StringList     `json:"czNace,omitempty" validate:"omitempty,max=5"`
}

// DecodeSearchFilter builds a SearchFilter from a loosely-typed argument map,
// coercing a single identifier string into a one-element list, applying the
// default page size and validating every field. Unknown keys are ignored.
func DecodeSearchFilter(args map[string]any) (SearchFilter, error) {
	var f SearchFilter
	if err := decodeArgs(args, &f); err != nil {
		return SearchFilter{}, err
	}
	if f.Address.IsEmpty() {
		f.Address = nil
	}
	if f.Limit == nil {
		limit := DefaultLimit
		f.Limit = &limit
	}
	if err := validate.Struct(&f); err != nil {
		return SearchFilter{}, formatFilterErrors(err)
	}
	return f, nil
}

// searchFilterKeys holds the wire names of SearchFilter fields.
var searchFilterKeys = func() map[string]bool {
	keys := map[string]bool{}
	t := reflect.TypeOf(SearchFilter{})
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		keys[name] = true
	}
	return keys
}()

// DecodeRegistryFilter builds the body for a search inside one source
// register. Known SearchFilter fields are decoded, defaulted and validated
// as in DecodeSearchFilter; register-specific keys are forwarded unchanged.
func DecodeRegistryFilter(args map[string]any) (map[string]any, error) {
	f, err := DecodeSearchFilter(args)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return nil, NewValidationError("invalid search filter: %v", err)
	}
	body := map[string]any{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, NewValidationError("invalid search filter: %v", err)
	}
	for k, v := range args {
		if !searchFilterKeys[k] {
			body[k] = v
		}
	}
	return body, nil
}

// LooseQuery is the simple GET-based subject search.
type LooseQuery struct {
	Identifier string `json:"ico"`
	Name       string `json:"name"`
	Address    string `json:"address"`
}

// DecodeLooseQuery builds a LooseQuery from an argument map. At least one of
// ico, name or address must be present.
func DecodeLooseQuery(args map[string]any) (LooseQuery, error) {
	var q LooseQuery
	if err := decodeArgs(args, &q); err != nil {
		return LooseQuery{}, err
	}
	q.Identifier = strings.TrimSpace(q.Identifier)
	q.Name = strings.TrimSpace(q.Name)
	q.Address = strings.TrimSpace(q.Address)
	if q.Identifier == "" && q.Name == "" && q.Address == "" {
		return LooseQuery{}, NewValidationError("At least one search parameter (ico, name, or address) is required")
	}
	return q, nil
}

// Values returns the registry-native query parameters.
func (q LooseQuery) Values() url.Values {
	v := url.Values{}
	if q.Identifier != "" {
		v.Set("ico", q.Identifier)
	}
	if q.Name != "" {
		v.Set("obchodniJmeno", q.Name)
	}
	if q.Address != "" {
		v.Set("sidlo", q.Address)
	}
	return v
}

// decodeArgs round-trips args through JSON into dst.
func decodeArgs(args map[string]any, dst any) error {
	if len(args) == 0 {
		return nil
	}
	raw, err := json.Marshal(args)
	if err != nil {
		return NewValidationError("invalid arguments: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return NewValidationError("invalid argument %s: expected %s", typeErr.Field, typeErr.Type)
		}
		return NewValidationError("invalid arguments: %v", err)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("ico", func(fl validator.FieldLevel) bool {
		return IsIdentifierShape(fl.Field().String())
	})
	return v
}

// formatFilterErrors converts validator errors into a single ValidationError
// naming fields by their wire names.
func formatFilterErrors(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewValidationError("invalid search filter: %v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFilterError(e))
	}
	return &ValidationError{Message: strings.Join(msgs, "; ")}
}

func formatFilterError(e validator.FieldError) string {
	field := e.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch e.Tag() {
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must have at most %s items", field, e.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "ico":
		return fmt.Sprintf("%s must be exactly 8 digits", field)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}
