package registry

// IdentifierLength is the number of digits in a company identifier (IČO).
const IdentifierLength = 8

// identifierWeights apply to the first seven digits of an identifier.
var identifierWeights = [IdentifierLength - 1]int{8, 7, 6, 5, 4, 3, 2}

// ReasonIdentifierFormat is reported for anything that is not exactly 8 ASCII digits.
const ReasonIdentifierFormat = "IČO must be exactly 8 digits"

// ReasonIdentifierChecksum is reported when the check digit does not match.
const ReasonIdentifierChecksum = "IČO check digit does not match (mod 11)"

// IsIdentifierShape reports whether s is exactly 8 ASCII digits.
func IsIdentifierShape(s string) bool {
	if len(s) != IdentifierLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// CheckDigit computes the mod-11 check digit from the first seven digits of s.
// s must satisfy IsIdentifierShape.
func CheckDigit(s string) int {
	total := 0
	for i, w := range identifierWeights {
		total += int(s[i]-'0') * w
	}
	return (11 - total%11) % 10
}

// ValidateIdentifierFormat checks the shape and checksum of an identifier.
// When the format is invalid the returned reason explains why.
func ValidateIdentifierFormat(s string) (bool, string) {
	if !IsIdentifierShape(s) {
		return false, ReasonIdentifierFormat
	}
	if CheckDigit(s) != int(s[IdentifierLength-1]-'0') {
		return false, ReasonIdentifierChecksum
	}
	return true, ""
}

// IdentifierValidation is the result of a full identifier check.
// Valid is ValidFormat AND ExistsInRegistry; Reason is set only when
// ValidFormat is false.
type IdentifierValidation struct {
	Identifier       string `json:"identifier"`
	ValidFormat      bool   `json:"validFormat"`
	ExistsInRegistry bool   `json:"existsInRegistry"`
	Valid            bool   `json:"valid"`
	Reason           string `json:"reason,omitempty"`
}
