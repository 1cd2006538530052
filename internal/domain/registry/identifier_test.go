package registry

import "testing"

func TestValidateIdentifierFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantValid  bool
		wantReason string
	}{
		{name: "minimal valid checksum", input: "00000019", wantValid: true},
		{name: "valid company", input: "26168685", wantValid: true},
		{name: "remainder zero yields check digit one", input: "25596641", wantValid: true},
		{name: "valid with remainder two", input: "45274649", wantValid: true},
		{name: "wrong check digit", input: "00000018", wantReason: ReasonIdentifierChecksum},
		{name: "too short", input: "123", wantReason: ReasonIdentifierFormat},
		{name: "too long", input: "123456789", wantReason: ReasonIdentifierFormat},
		{name: "empty", input: "", wantReason: ReasonIdentifierFormat},
		{name: "letters", input: "1234567a", wantReason: ReasonIdentifierFormat},
		{name: "whitespace", input: " 0000019", wantReason: ReasonIdentifierFormat},
		{name: "non-ascii digits", input: "٠٠٠٠٠٠١٩", wantReason: ReasonIdentifierFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			valid, reason := ValidateIdentifierFormat(tt.input)
			if valid != tt.wantValid {
				t.Errorf("ValidateIdentifierFormat(%q) valid = %v, want %v", tt.input, valid, tt.wantValid)
			}
			if reason != tt.wantReason {
				t.Errorf("ValidateIdentifierFormat(%q) reason = %q, want %q", tt.input, reason, tt.wantReason)
			}
			if !valid && reason == "" {
				t.Errorf("ValidateIdentifierFormat(%q) invalid without a reason", tt.input)
			}
		})
	}
}

func TestCheckDigit(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"00000019": 9,
		"26168685": 5,
		"25596641": 1,
		"00000400": 0, // total mod 11 == 1
	}
	for input, want := range tests {
		if got := CheckDigit(input); got != want {
			t.Errorf("CheckDigit(%q) = %d, want %d", input, got, want)
		}
	}
}

func TestIsIdentifierShape(t *testing.T) {
	t.Parallel()

	if !IsIdentifierShape("12345678") {
		t.Error("IsIdentifierShape(12345678) = false, want true")
	}
	for _, bad := range []string{"1234567", "123456789", "1234 678", "abcdefgh"} {
		if IsIdentifierShape(bad) {
			t.Errorf("IsIdentifierShape(%q) = true, want false", bad)
		}
	}
}
