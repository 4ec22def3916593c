package style

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/chartlayout/pkg/errors"
)

// Size is a length given either in pixels or as a percentage of some
// reference length, e.g. "70%" of the chart width. The zero Size is unset.
type Size struct {
	Value   float64
	Percent bool
	Set     bool
}

// Px returns an absolute size.
func Px(v float64) Size { return Size{Value: v, Set: true} }

// Pct returns a percentage size.
func Pct(v float64) Size { return Size{Value: v, Percent: true, Set: true} }

// ParseSize reads "120", "12.5" or "70%".
func ParseSize(s string) (Size, error) {
	if err := errors.ValidateSize("size", s); err != nil {
		return Size{}, err
	}
	v := strings.TrimSpace(s)
	if p, ok := strings.CutSuffix(v, "%"); ok {
		f, _ := strconv.ParseFloat(p, 64)
		return Pct(f), nil
	}
	f, _ := strconv.ParseFloat(v, 64)
	return Px(f), nil
}

// Normalize resolves the size against total. Unset sizes resolve to 0.
func (s Size) Normalize(total float64) float64 {
	if !s.Set {
		return 0
	}
	if s.Percent {
		return total * s.Value / 100
	}
	return s.Value
}

// Or returns s when set and def otherwise.
func (s Size) Or(def Size) Size {
	if s.Set {
		return s
	}
	return def
}

func (s Size) String() string {
	if !s.Set {
		return ""
	}
	v := strconv.FormatFloat(s.Value, 'f', -1, 64)
	if s.Percent {
		return v + "%"
	}
	return v
}

// MarshalJSON writes a number for pixel sizes and a string for percentages.
func (s Size) MarshalJSON() ([]byte, error) {
	switch {
	case !s.Set:
		return []byte("null"), nil
	case s.Percent:
		return json.Marshal(s.String())
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON accepts numbers, numeric strings and percentages.
func (s *Size) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	return s.fromAny(raw)
}

// MarshalYAML mirrors MarshalJSON.
func (s Size) MarshalYAML() (any, error) {
	switch {
	case !s.Set:
		return nil, nil
	case s.Percent:
		return s.String(), nil
	}
	return s.Value, nil
}

// UnmarshalYAML accepts scalars written as numbers or percentages.
func (s *Size) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errors.New(errors.ErrCodeInvalidSetting, "line %d: size must be a scalar", node.Line)
	}
	if node.Tag == "!!null" {
		*s = Size{}
		return nil
	}
	return s.fromAny(node.Value)
}

// MarshalTOML implements toml.Marshaler. Unset sizes are written as an
// empty string.
func (s Size) MarshalTOML() ([]byte, error) {
	if s.Percent || !s.Set {
		return []byte(strconv.Quote(s.String())), nil
	}
	return []byte(s.String()), nil
}

// UnmarshalTOML implements toml.Unmarshaler.
func (s *Size) UnmarshalTOML(v any) error {
	return s.fromAny(v)
}

func (s *Size) fromAny(v any) error {
	switch x := v.(type) {
	case nil:
		*s = Size{}
	case float64:
		*s = Px(x)
	case int64:
		*s = Px(float64(x))
	case int:
		*s = Px(float64(x))
	case string:
		if strings.TrimSpace(x) == "" {
			*s = Size{}
			return nil
		}
		p, err := ParseSize(x)
		if err != nil {
			return err
		}
		*s = p
	default:
		return errors.New(errors.ErrCodeInvalidSetting, "size: unsupported value %v", fmt.Sprint(v))
	}
	return nil
}
