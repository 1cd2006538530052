package registry

// Descriptor identifies one source register exposed by the registry API.
type Descriptor struct {
	// Code is the short register code used by callers (e.g. "vr").
	Code string `json:"code"`

	// Name is the register's display name.
	Name string `json:"name"`

	// Endpoint is the API path segment for the register.
	Endpoint string `json:"endpoint"`
}

// descriptors is the fixed register table, in display order.
var descriptors = []Descriptor{
	{Code: "vr", Name: "Veřejný rejstřík", Endpoint: "ekonomicke-subjekty-vr"},
	{Code: "res", Name: "Registr ekonomických subjektů", Endpoint: "ekonomicke-subjekty-res"},
	{Code: "rzp", Name: "Registr živnostenského podnikání", Endpoint: "ekonomicke-subjekty-rzp"},
	{Code: "nrpzs", Name: "Národní registr poskytovatelů zdravotních služeb", Endpoint: "ekonomicke-subjekty-nrpzs"},
	{Code: "rpsh", Name: "Registr politických stran a hnutí", Endpoint: "ekonomicke-subjekty-rpsh"},
	{Code: "rcns", Name: "Registr církví a náboženských společností", Endpoint: "ekonomicke-subjekty-rcns"},
	{Code: "szr", Name: "Společný zemědělský registr", Endpoint: "ekonomicke-subjekty-szr"},
	{Code: "rs", Name: "Rejstřík škol", Endpoint: "ekonomicke-subjekty-rs"},
	{Code: "ceu", Name: "Centrální evidence úpadců", Endpoint: "ekonomicke-subjekty-ceu"},
}

var descriptorsByCode = func() map[string]Descriptor {
	m := make(map[string]Descriptor, len(descriptors))
	for _, d := range descriptors {
		m[d.Code] = d
	}
	return m
}()

// LookupRegistry returns the descriptor for code.
func LookupRegistry(code string) (Descriptor, bool) {
	d, ok := descriptorsByCode[code]
	return d, ok
}

// Registries returns a copy of the register table.
func Registries() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// RegistryCodes returns the known register codes in table order.
func RegistryCodes() []string {
	codes := make([]string, len(descriptors))
	for i, d := range descriptors {
		codes[i] = d.Code
	}
	return codes
}

// SearchPath returns the search path for the register.
func (d Descriptor) SearchPath() string {
	return "/" + d.Endpoint + "/vyhledat"
}

// LookupPath returns the lookup path for an identifier in the register.
func (d Descriptor) LookupPath(identifier string) string {
	return "/" + d.Endpoint + "/" + identifier
}

// UnknownRegistry is the result returned for an unrecognized register code.
type UnknownRegistry struct {
	Error     string   `json:"error"`
	Available []string `json:"available"`
}

// NewUnknownRegistry builds the result for code, listing every known code.
func NewUnknownRegistry(code string) UnknownRegistry {
	return UnknownRegistry{
		Error:     "Unknown registry: " + code,
		Available: RegistryCodes(),
	}
}
