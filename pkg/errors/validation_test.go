package errors

import (
	"math"
	"testing"
)

func TestValidateChartType(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"funnel", false},
		{"pyramid", false},
		{"timeline", false},
		{"pie", true},
		{"", true},
		{"Funnel", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateChartType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateChartType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidChartType) {
				t.Errorf("code = %v, want %v", GetCode(err), ErrCodeInvalidChartType)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"svg", "png", "json"} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q) = %v, want nil", f, err)
		}
	}
	if err := ValidateFormat("pdf"); !Is(err, ErrCodeInvalidFormat) {
		t.Errorf("ValidateFormat(pdf) = %v, want %v", err, ErrCodeInvalidFormat)
	}
}

func TestValidateBounds(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"valid", 800, 600, false},
		{"zero width", 0, 600, true},
		{"negative height", 800, -1, true},
		{"nan", math.NaN(), 600, true},
		{"inf", 800, math.Inf(1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBounds(tt.w, tt.h)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBounds(%v, %v) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSize(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"70%", false},
		{"12.5", false},
		{" 30% ", false},
		{"-5", false},
		{"", true},
		{"wide", true},
		{"%", true},
		{"abc%", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateSize("baseWidth", tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSize(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
