package errors

import (
	"testing"
)

func TestValidateDimensions(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		depth   int
		wantErr bool
	}{
		{"one by one", 1, 1, false},
		{"rectangular", 8, 3, false},
		{"large", 10000, 10000, false},

		{"zero width", 0, 3, true},
		{"zero depth", 3, 0, true},
		{"negative width", -1, 3, true},
		{"negative depth", 3, -4, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDimensions(tt.width, tt.depth)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDimensions(%d, %d) error = %v, wantErr %v", tt.width, tt.depth, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidConfig)
			}
		})
	}
}

func TestValidateBoundedDimensions(t *testing.T) {
	if err := ValidateBoundedDimensions(MaxDimension, MaxDimension); err != nil {
		t.Errorf("at the limit should pass: %v", err)
	}
	if err := ValidateBoundedDimensions(MaxDimension+1, 2); err == nil {
		t.Error("width over the limit should fail")
	}
	if err := ValidateBoundedDimensions(2, MaxDimension+1); err == nil {
		t.Error("depth over the limit should fail")
	}
	if err := ValidateBoundedDimensions(0, 2); err == nil {
		t.Error("zero width should fail")
	}
}

func TestValidateFormatName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"mp4", false},
		{"", true},
		{"SVG", true},
		{"svg,png", true},
		{"../etc", true},
		{"averyveryverylongformat", true},
	}
	for _, tt := range tests {
		err := ValidateFormatName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormatName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormatName(%q) code = %s, want INVALID_FORMAT", tt.name, GetCode(err))
		}
	}
}
