package edit

import (
	"fmt"
	"strings"
)

// Field names one adjustment slider.
type Field string

const (
	Brightness Field = "brightness"
	Contrast   Field = "contrast"
	Saturation Field = "saturation"
	Sharpness  Field = "sharpness"
)

// Range is the accepted interval of a Field, with its neutral default.
type Range struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

// Contains reports whether v lies within [Min, Max].
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

var fieldRanges = map[Field]Range{
	Brightness: {Min: 0, Max: 200, Default: 100},
	Contrast:   {Min: 0, Max: 200, Default: 100},
	Saturation: {Min: 0, Max: 200, Default: 100},
	Sharpness:  {Min: 0, Max: 100, Default: 0},
}

// Fields returns every adjustment field in pipeline order.
func Fields() []Field {
	return []Field{Brightness, Contrast, Saturation, Sharpness}
}

// RangeOf returns the accepted range of f.
func RangeOf(f Field) (Range, bool) {
	r, ok := fieldRanges[f]
	return r, ok
}

// ParseField converts a user-supplied name into a Field. Matching is
// case-insensitive.
func ParseField(name string) (Field, error) {
	f := Field(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := fieldRanges[f]; !ok {
		return "", fmt.Errorf("%w: unknown adjustment %q", ErrInvalidParameter, name)
	}
	return f, nil
}

// AdjustmentParams holds the non-destructive slider values. They are always
// applied to the base image from scratch, never on top of an earlier result.
type AdjustmentParams struct {
	Brightness int `json:"brightness"`
	Contrast   int `json:"contrast"`
	Saturation int `json:"saturation"`
	Sharpness  int `json:"sharpness"`
}

// DefaultAdjustments returns the neutral parameters that leave an image unchanged.
func DefaultAdjustments() AdjustmentParams {
	return AdjustmentParams{
		Brightness: fieldRanges[Brightness].Default,
		Contrast:   fieldRanges[Contrast].Default,
		Saturation: fieldRanges[Saturation].Default,
		Sharpness:  fieldRanges[Sharpness].Default,
	}
}

// Get returns the value of f, or 0 for an unknown field.
func (p AdjustmentParams) Get(f Field) int {
	switch f {
	case Brightness:
		return p.Brightness
	case Contrast:
		return p.Contrast
	case Saturation:
		return p.Saturation
	case Sharpness:
		return p.Sharpness
	}
	return 0
}

// With returns a copy of p with f set to v. Out-of-range values are rejected.
func (p AdjustmentParams) With(f Field, v int) (AdjustmentParams, error) {
	r, ok := fieldRanges[f]
	if !ok {
		return p, fmt.Errorf("%w: unknown adjustment %q", ErrInvalidParameter, f)
	}
	if !r.Contains(v) {
		return p, fmt.Errorf("%w: %s=%d outside [%d,%d]", ErrInvalidParameter, f, v, r.Min, r.Max)
	}
	switch f {
	case Brightness:
		p.Brightness = v
	case Contrast:
		p.Contrast = v
	case Saturation:
		p.Saturation = v
	case Sharpness:
		p.Sharpness = v
	}
	return p, nil
}

// Validate checks every field against its range.
func (p AdjustmentParams) Validate() error {
	for _, f := range Fields() {
		r := fieldRanges[f]
		if v := p.Get(f); !r.Contains(v) {
			return fmt.Errorf("%w: %s=%d outside [%d,%d]", ErrInvalidParameter, f, v, r.Min, r.Max)
		}
	}
	return nil
}

// IsDefault reports whether p would leave the image unchanged.
func (p AdjustmentParams) IsDefault() bool {
	return p == DefaultAdjustments()
}
