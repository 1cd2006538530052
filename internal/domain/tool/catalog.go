package tool

import "github.com/ares-mcp/ares-mcp-server/internal/domain/registry"

// identifierPattern is the JSON Schema pattern for an identifier argument.
const identifierPattern = "^[0-9]{8}$"

var catalog = []Tool{
	{
		Name:        SearchSubjects,
		Title:       "Search economic subjects",
		Description: "Vyhledání seznamu ekonomických subjektů ARES podle komplexního filtru (Search economic entities using complex filter)",
		Kind:        KindSearch,
		InputSchema: object(subjectFilterProperties(true)),
	},
	{
		Name:        FindSubject,
		Title:       "Find economic subject",
		Description: "Jednoduché vyhledání subjektu podle IČO, názvu nebo adresy (Simple search by ICO, name or address)",
		Kind:        KindSearch,
		InputSchema: object(map[string]any{
			"ico":     str("IČO (8 digits)"),
			"name":    str("Business name"),
			"address": str("Registered office address as free text"),
		}),
	},
	{
		Name:        GetSubject,
		Title:       "Get economic subject",
		Description: "Vyhledání ekonomického subjektu ARES podle zadaného IČA (Get economic entity by ICO)",
		Kind:        KindLookup,
		InputSchema: object(map[string]any{"ico": identifier("IČO (8 digits)")}, "ico"),
	},
	{
		Name:        GetExtract,
		Title:       "Get register extract",
		Description: "Získání výpisu ekonomického subjektu (Get register extract of an economic entity)",
		Kind:        KindLookup,
		InputSchema: object(map[string]any{
			"ico":  identifier("IČO (8 digits)"),
			"type": str("Extract type (default: standard)"),
		}, "ico"),
	},
	{
		Name:        SearchInRegistry,
		Title:       "Search in registry",
		Description: "Vyhledání v konkrétním registru (Search in specific registry). Register-specific filter fields are forwarded unchanged.",
		Kind:        KindSearch,
		InputSchema: object(withRegistry(subjectFilterProperties(false)), "registry"),
	},
	{
		Name:        GetFromRegistry,
		Title:       "Get from registry",
		Description: "Získání subjektu z konkrétního registru podle IČO (Get entity from specific registry by ICO)",
		Kind:        KindLookup,
		InputSchema: object(withRegistry(map[string]any{"ico": identifier("IČO (8 digits)")}), "registry", "ico"),
	},
	{
		Name:        ValidateIdentifier,
		Title:       "Validate IČO",
		Description: "Ověření validity IČO (Validate ICO format and existence)",
		Kind:        KindValidate,
		InputSchema: object(map[string]any{"ico": str("IČO to validate")}, "ico"),
	},
	{
		Name:        SearchCodebooks,
		Title:       "Search codebooks",
		Description: "Vyhledání v číselnících a názvnících (Search codebooks and nomenclatures)",
		Kind:        KindPassthrough,
		InputSchema: object(paged(map[string]any{
			"kod":   str("Codebook code"),
			"nazev": str("Codebook name"),
		})),
	},
	{
		Name:        SearchAddresses,
		Title:       "Search addresses",
		Description: "Vyhledání standardizovaných adres (Search standardized addresses)",
		Kind:        KindPassthrough,
		InputSchema: object(paged(map[string]any{
			"obec":     str("Municipality"),
			"castObce": str("Municipality part"),
			"ulice":    str("Street"),
		})),
	},
	{
		Name:        SearchNotifications,
		Title:       "Search notification batches",
		Description: "Vyhledání notifikačních dávek (Search notification batches)",
		Kind:        KindPassthrough,
		InputSchema: object(paged(map[string]any{
			"datumOd": date("Batches from this date"),
			"datumDo": date("Batches up to this date"),
		})),
	},
}

var byName = func() map[Name]Tool {
	m := make(map[Name]Tool, len(catalog))
	for _, t := range catalog {
		m[t.Name] = t
	}
	return m
}()

// Catalog returns every tool in listing order.
func Catalog() []Tool {
	out := make([]Tool, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the tool called name.
func Lookup(name string) (Tool, bool) {
	t, ok := byName[Name(name)]
	return t, ok
}

func subjectFilterProperties(full bool) map[string]any {
	props := paged(map[string]any{
		"razeni": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string", "enum": registry.SortOrders},
			"description": "Sort order: ICO, ICO_DESC, OBCHODNI_JMENO, OBCHODNI_JMENO_DESC",
		},
		"ico": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string", "pattern": identifierPattern},
			"description": "List of IČO numbers to search",
		},
		"obchodniJmeno": str("Business name to search"),
		"sidlo":         addressFilter(),
		"pravniForma":   strList("Legal form codes"),
	})
	if full {
		props["financniUrad"] = strList("Tax office codes")
		czNace := strList("CZ-NACE economic activity codes (max 5)")
		czNace["maxItems"] = registry.MaxActivityCodes
		props["czNace"] = czNace
	}
	return props
}

func addressFilter() map[string]any {
	props := map[string]any{
		"cisloOrientacniPismeno": map[string]any{"type": "string", "maxLength": 1},
		"textovaAdresa":          map[string]any{"type": "string"},
	}
	for _, k := range []string{"kodCastiObce", "kodSpravnihoObvodu", "kodMestskeCastiObvodu", "kodUlice", "cisloDomovni", "kodObce", "cisloOrientacni"} {
		props[k] = map[string]any{"type": "integer", "minimum": 1}
	}
	return map[string]any{
		"type":        "object",
		"description": "Address filter",
		"properties":  props,
	}
}

func withRegistry(props map[string]any) map[string]any {
	props["registry"] = map[string]any{
		"type":        "string",
		"description": "Registry code",
		"enum":        registry.RegistryCodes(),
	}
	return props
}

func paged(props map[string]any) map[string]any {
	props["start"] = map[string]any{"type": "integer", "minimum": 0, "description": "Starting position (default: 0)"}
	props["pocet"] = map[string]any{
		"type":        "integer",
		"minimum":     0,
		"maximum":     registry.MaxLimit,
		"description": "Number of results (default: 20, max: 200)",
	}
	return props
}

func object(props map[string]any, required ...string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func strList(desc string) map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": desc}
}

func identifier(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc, "pattern": identifierPattern}
}

func date(desc string) map[string]any {
	return map[string]any{"type": "string", "format": "date", "description": desc}
}
