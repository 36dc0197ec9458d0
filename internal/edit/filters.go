package edit

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Filter names one on/off image filter.
type Filter string

const (
	Grayscale Filter = "grayscale"
	Sepia     Filter = "sepia"
	Negative  Filter = "negative"
	Blur      Filter = "blur"
	Sobel     Filter = "sobel"
)

// filterOrder is also the order in which processors apply enabled filters.
var filterOrder = []Filter{Grayscale, Sepia, Negative, Blur, Sobel}

// Filters returns every supported filter in application order.
func Filters() []Filter {
	out := make([]Filter, len(filterOrder))
	copy(out, filterOrder)
	return out
}

func filterBit(f Filter) (FilterSet, bool) {
	for i, known := range filterOrder {
		if known == f {
			return 1 << i, true
		}
	}
	return 0, false
}

// ParseFilter converts a user-supplied name into a Filter.
func ParseFilter(name string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := filterBit(f); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFilter, name)
	}
	return f, nil
}

// FilterSet is the set of enabled filters. A filter is either applied or
// not; there is no intensity. The zero value is the empty set.
type FilterSet uint8

// NewFilterSet returns a set holding the given filters. Unknown names are ignored.
func NewFilterSet(filters ...Filter) FilterSet {
	var s FilterSet
	for _, f := range filters {
		s = s.With(f)
	}
	return s
}

// Has reports whether f is enabled.
func (s FilterSet) Has(f Filter) bool {
	b, ok := filterBit(f)
	return ok && s&b != 0
}

// With returns s with f enabled.
func (s FilterSet) With(f Filter) FilterSet {
	b, _ := filterBit(f)
	return s | b
}

// Without returns s with f disabled.
func (s FilterSet) Without(f Filter) FilterSet {
	b, _ := filterBit(f)
	return s &^ b
}

// Toggle returns s with f flipped.
func (s FilterSet) Toggle(f Filter) FilterSet {
	b, _ := filterBit(f)
	return s ^ b
}

// IsEmpty reports whether no filter is enabled.
func (s FilterSet) IsEmpty() bool { return s == 0 }

// Enabled lists the enabled filters in application order.
func (s FilterSet) Enabled() []Filter {
	var out []Filter
	for _, f := range filterOrder {
		if s.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Map returns every supported filter with its enabled flag.
func (s FilterSet) Map() map[string]bool {
	m := make(map[string]bool, len(filterOrder))
	for _, f := range filterOrder {
		m[string(f)] = s.Has(f)
	}
	return m
}

func (s FilterSet) String() string {
	enabled := s.Enabled()
	names := make([]string, len(enabled))
	for i, f := range enabled {
		names[i] = string(f)
	}
	return "{" + strings.Join(names, ",") + "}"
}

// MarshalJSON encodes the set as a name to flag object.
func (s FilterSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Map())
}

// UnmarshalJSON accepts a name to flag object.
func (s *FilterSet) UnmarshalJSON(data []byte) error {
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out FilterSet
	for name, on := range m {
		f, err := ParseFilter(name)
		if err != nil {
			return err
		}
		if on {
			out = out.With(f)
		}
	}
	*s = out
	return nil
}
