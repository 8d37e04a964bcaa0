package errors

import (
	"math"
	"testing"
)

func TestValidateFraction(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"middle", 0.3, false},

		{"negative", -0.01, true},
		{"above one", 1.01, true},
		{"NaN", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFraction("fprop", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFraction(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !IsConstraint(err) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeConstraint)
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"zero", 0, false},
		{"positive", 12.5, false},
		{"infinite", math.Inf(1), false},

		{"negative", -1, true},
		{"NaN", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNonNegative("width", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNonNegative(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"numeric", "1042", false},
		{"letters", "RA", false},
		{"with dash", "trib-7", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"too long", string(make([]byte, 300)), true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "barriers", false},
		{"mixed case", "HydroID_DS", false},
		{"digits", "PASS04", false},

		{"empty", "", true},
		{"space", "bad name", true},
		{"quote", `x"; DROP TABLE y`, true},
		{"dot", "a.b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName("field", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}
