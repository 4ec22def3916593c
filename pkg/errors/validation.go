package errors

import (
	"math"
	"strconv"
	"strings"
)

// Chart kinds accepted by ValidateChartType.
var chartTypes = []string{"funnel", "pyramid", "timeline"}

// Output formats accepted by ValidateFormat.
var formats = []string{"svg", "png", "json"}

// ValidateChartType rejects chart kinds the layout engines do not handle.
func ValidateChartType(kind string) error {
	for _, k := range chartTypes {
		if k == kind {
			return nil
		}
	}
	return New(ErrCodeInvalidChartType, "unknown chart type %q (want one of %s)", kind, strings.Join(chartTypes, ", "))
}

// ValidateFormat rejects output formats no sink exists for.
func ValidateFormat(format string) error {
	for _, f := range formats {
		if f == format {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unknown output format %q (want one of %s)", format, strings.Join(formats, ", "))
}

// ValidateBounds checks that a chart area is finite and non-degenerate.
func ValidateBounds(width, height float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		return New(ErrCodeInvalidBounds, "width must be a positive number, got %v", width)
	}
	if math.IsNaN(height) || math.IsInf(height, 0) || height <= 0 {
		return New(ErrCodeInvalidBounds, "height must be a positive number, got %v", height)
	}
	return nil
}

// ValidateSize checks a size setting written either as a pixel number
// ("120", "12.5") or as a percentage ("70%").
func ValidateSize(name, value string) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return New(ErrCodeInvalidSetting, "%s cannot be empty", name)
	}
	if strings.HasSuffix(v, "%") {
		return ValidatePercent(name, v)
	}
	if _, err := strconv.ParseFloat(v, 64); err != nil {
		return Wrap(ErrCodeInvalidSetting, err, "%s: %q is neither a number nor a percentage", name, value)
	}
	return nil
}

// ValidatePercent checks a "NN%" setting.
func ValidatePercent(name, value string) error {
	v := strings.TrimSpace(value)
	if !strings.HasSuffix(v, "%") {
		return New(ErrCodeInvalidSetting, "%s: %q is not a percentage", name, value)
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(v, "%"), 64)
	if err != nil {
		return Wrap(ErrCodeInvalidSetting, err, "%s: invalid percentage %q", name, value)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return New(ErrCodeInvalidSetting, "%s: percentage must be finite", name)
	}
	return nil
}
