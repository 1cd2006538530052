package registry

// DefaultCountry is reported when the registry omits the country name.
const DefaultCountry = "Czech Republic"

// SubjectSummary is one entry of a subject search result.
type SubjectSummary struct {
	Identifier any            `json:"identifier"`
	Name       any            `json:"name"`
	Address    map[string]any `json:"address"`
	LegalForm  any            `json:"legalForm"`
	Status     any            `json:"status"`
}

// SubjectDetail is the flattened single-subject lookup result. Every field is
// always present; fields the registry did not return are null.
type SubjectDetail struct {
	Identifier        any            `json:"identifier"`
	TaxID             any            `json:"taxId"`
	Name              any            `json:"name"`
	LegalForm         any            `json:"legalForm"`
	EstablishmentDate any            `json:"establishmentDate"`
	TerminationDate   any            `json:"terminationDate"`
	Status            any            `json:"status"`
	Address           map[string]any `json:"address"`
	StatutoryBody     any            `json:"statutoryBody"`
	Activities        any            `json:"activities"`
}

// FormatAddress maps a registry address object into the flattened shape.
// It returns an empty mapping when given no input.
func FormatAddress(raw any) map[string]any {
	m, _ := raw.(map[string]any)
	if len(m) == 0 {
		return map[string]any{}
	}
	country := m["nazevStatu"]
	if country == nil {
		country = DefaultCountry
	}
	return map[string]any{
		"street":            m["nazevUlice"],
		"buildingNumber":    m["cisloDomovni"],
		"orientationNumber": m["cisloOrientacni"],
		"city":              m["nazevObce"],
		"cityPart":          m["nazevCastiObce"],
		"postalCode":        m["psc"],
		"country":           country,
	}
}

// FormatSubjectSummary maps one registry subject into a search entry.
func FormatSubjectSummary(raw map[string]any) SubjectSummary {
	return SubjectSummary{
		Identifier: raw["ico"],
		Name:       raw["obchodniJmeno"],
		Address:    FormatAddress(raw["sidlo"]),
		LegalForm:  raw["pravniForma"],
		Status:     raw["stavSubjektu"],
	}
}

// FormatSubjects maps a registry subject list. Entries that are not objects
// are skipped.
func FormatSubjects(raw any) []SubjectSummary {
	items, _ := raw.([]any)
	out := make([]SubjectSummary, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, FormatSubjectSummary(m))
		}
	}
	return out
}

// FormatSubjectDetail maps a registry subject into the detailed lookup shape.
func FormatSubjectDetail(raw map[string]any) SubjectDetail {
	activities := raw["cinnosti"]
	if activities == nil {
		activities = []any{}
	}
	return SubjectDetail{
		Identifier:        raw["ico"],
		TaxID:             raw["dic"],
		Name:              raw["obchodniJmeno"],
		LegalForm:         raw["pravniForma"],
		EstablishmentDate: raw["datumVzniku"],
		TerminationDate:   raw["datumZaniku"],
		Status:            raw["stavSubjektu"],
		Address:           FormatAddress(raw["sidlo"]),
		StatutoryBody:     raw["statutarniOrgan"],
		Activities:        activities,
	}
}
