// Package tool contains the declarative catalog of registry tools exposed to
// MCP hosts.
package tool

// Name identifies a tool in the catalog.
type Name string

// Tool names. They are the identifiers hosts call, kept in the registry's
// own language.
const (
	SearchSubjects      Name = "vyhledat_ekonomicke_subjekty"
	FindSubject         Name = "hledat_subjekt"
	GetSubject          Name = "najit_ekonomicky_subjekt"
	GetExtract          Name = "ziskat_vypis"
	SearchInRegistry    Name = "vyhledat_v_registru"
	GetFromRegistry     Name = "najit_v_registru"
	ValidateIdentifier  Name = "validovat_ico"
	SearchCodebooks     Name = "vyhledat_ciselniky"
	SearchAddresses     Name = "vyhledat_adresy"
	SearchNotifications Name = "vyhledat_notifikace"
)

// Kind groups tools by the shape of work they do.
type Kind string

const (
	// KindSearch tools return a list of subjects.
	KindSearch Kind = "search"

	// KindLookup tools fetch one subject by identifier.
	KindLookup Kind = "lookup"

	// KindValidate tools check an identifier.
	KindValidate Kind = "validate"

	// KindPassthrough tools forward a filter and return the raw result.
	KindPassthrough Kind = "passthrough"
)

// Tool describes one callable tool.
// Fields mirror the MCP tools/list entry.
type Tool struct {
	// Name is the unique identifier for this tool.
	Name Name `json:"name" yaml:"name"`

	// Title is a short human-readable display name.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Description is shown to the host model.
	Description string `json:"description" yaml:"description"`

	// Kind is the tool's work category. Not part of the MCP listing.
	Kind Kind `json:"-" yaml:"kind"`

	// InputSchema is the JSON Schema object for the tool's arguments.
	InputSchema map[string]any `json:"inputSchema" yaml:"inputSchema"`
}

// Required returns the argument names the schema marks as required.
func (t Tool) Required() []string {
	req, _ := t.InputSchema["required"].([]string)
	return req
}
