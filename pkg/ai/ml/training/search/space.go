package search

import (
	"github.com/i-spark/catboost/pkg/validator"
)

// maxAxisStringLen caps a string scalar's length before it can become a
// quantization-axis value or an "other" axis value; a longer string
// (a whole document embedded under border_type, say) is truncated to
// this many bytes by the sanitizer, without an error, so it cannot blow
// up a log line or an options map.
const maxAxisStringLen = 256

// quantAxisAliases lists, per quantization axis, the recognized grid
// keys in priority order: the canonical name first, then the aliases a
// caller's options might already use (§6). The first alias present in
// the grid wins.
var quantAxisAliases = map[string][]string{
	"bin_count":   {"bin_count", "border_count", "max_bin"},
	"border_type": {"border_type", "feature_border_type"},
	"nan_mode":    {"nan_mode"},
}

// ParsedSpace is one grid, normalized: the three quantization axes
// always present (grid-supplied or defaulted from the base options),
// plus the "other" axes in the order they were first observed in the
// grid map (§6: that order is a quirk of map iteration, fixed for the
// remainder of the search once captured).
type ParsedSpace struct {
	Axes       QuantizationAxesPresence
	OtherNames []string
	Sets       [][]Value // index 0..2 quantization axes, 3..N-1 other axes
}

// ParseSpace normalizes one raw grid against the base options and
// generator registry. It removes the three quantization keys (under
// whichever alias matched) from consideration as "other" axes, defaults
// any quantization axis missing from the grid out of baseOptions,
// classifies every remaining value, and validates that every
// RandomRef reachable from the grid names a registered generator.
func ParseSpace(raw RawSearchSpace, baseOptions map[string]any, registry GeneratorRegistry) (*ParsedSpace, error) {
	grid := make(map[string][]Value, len(raw))
	for k, v := range raw {
		grid[k] = v
	}

	sanitizer := validator.NewSanitizer(validator.SanitizerConfig{MaxLength: maxAxisStringLen})

	binCount, binAlias, binFound, err := extractAxis(grid, quantAxisAliases["bin_count"], baseOptions, classifyBinCount, sanitizer)
	if err != nil {
		return nil, err
	}
	borderType, borderAlias, borderFound, err := extractAxis(grid, quantAxisAliases["border_type"], baseOptions, classifyEnumString, sanitizer)
	if err != nil {
		return nil, err
	}
	nanMode, nanAlias, nanFound, err := extractAxis(grid, quantAxisAliases["nan_mode"], baseOptions, classifyEnumString, sanitizer)
	if err != nil {
		return nil, err
	}

	otherNames := make([]string, 0, len(grid))
	sets := make([][]Value, 0, 3+len(grid))
	sets = append(sets, binCount, borderType, nanMode)

	for name, rawValues := range grid {
		if len(rawValues) == 0 {
			return nil, SearchConfigf("axis %q has an empty set of values", name)
		}
		values := make([]Value, len(rawValues))
		for i, rv := range rawValues {
			v, err := classifyAny(rv, sanitizer)
			if err != nil {
				return nil, SearchConfigf("axis %q: %v", name, err)
			}
			values[i] = v
		}
		otherNames = append(otherNames, name)
		sets = append(sets, values)
	}

	if err := validateRegistryRefs(sets, registry); err != nil {
		return nil, err
	}

	return &ParsedSpace{
		Axes: QuantizationAxesPresence{
			BinCountInGrid:   binFound,
			BinCountAlias:    binAlias,
			BorderTypeInGrid: borderFound,
			BorderTypeAlias:  borderAlias,
			NanModeInGrid:    nanFound,
			NanModeAlias:     nanAlias,
		},
		OtherNames: otherNames,
		Sets:       sets,
	}, nil
}

// classifyFunc validates and normalizes one raw scalar for a specific
// quantization axis (bin_count wants an integer; border_type/nan_mode
// want a string), passing RandomRef values through untouched.
type classifyFunc func(raw any, sanitizer *validator.Sanitizer) (Value, error)

// extractAxis scans aliases in order for the first key present in grid.
// If found, it removes that key (so it isn't also treated as an "other"
// axis) and classifies its values with classify. If none of the aliases
// are present, it synthesizes a one-element axis from the first alias
// (in the same order) present in baseOptions, and reports that alias.
func extractAxis(grid map[string][]Value, aliases []string, baseOptions map[string]any, classify classifyFunc, sanitizer *validator.Sanitizer) ([]Value, string, bool, error) {
	for _, alias := range aliases {
		raw, ok := grid[alias]
		if !ok {
			continue
		}
		delete(grid, alias)
		if len(raw) == 0 {
			return nil, "", false, SearchConfigf("axis %q has an empty set of values", alias)
		}
		values := make([]Value, len(raw))
		for i, rv := range raw {
			v, err := classify(rv, sanitizer)
			if err != nil {
				return nil, "", false, SearchConfigf("axis %q: %v", alias, err)
			}
			values[i] = v
		}
		return values, alias, true, nil
	}

	canonical := aliases[0]
	for _, alias := range aliases {
		if base, ok := baseOptions[alias]; ok {
			v, err := classify(base, sanitizer)
			if err != nil {
				return nil, "", false, SearchConfigf("base option %q: %v", alias, err)
			}
			return []Value{v}, alias, false, nil
		}
	}
	return nil, "", false, SearchConfigf("quantization axis %q missing from both the grid and the base options", canonical)
}

// classifyBinCount requires an integer (or a RandomRef, resolved to one
// at evaluation time); per §4.D, bin_count is coerced to integer.
func classifyBinCount(raw any, sanitizer *validator.Sanitizer) (Value, error) {
	v, err := classifyAny(raw, sanitizer)
	if err != nil {
		return nil, err
	}
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		if n != float64(int64(n)) {
			return nil, SearchConfigf("bin_count value %v is not an integer", n)
		}
		return int64(n), nil
	case RandomRef:
		return n, nil
	default:
		return nil, SearchConfigf("bin_count value %v must be an integer", raw)
	}
}

// classifyEnumString requires a string (or a RandomRef); per §4.D,
// border_type and nan_mode are coerced to a stringified enum.
func classifyEnumString(raw any, sanitizer *validator.Sanitizer) (Value, error) {
	v, err := classifyAny(raw, sanitizer)
	if err != nil {
		return nil, err
	}
	switch s := v.(type) {
	case string, RandomRef:
		return s, nil
	default:
		return nil, SearchConfigf("value %v must be a string", raw)
	}
}

// classifyAny runs the general-purpose classify() and, for plain
// strings, sanitizes them (null-byte and length cap) before the
// RandomRef sentinel check — a grid is caller-controlled input same as
// any other.
func classifyAny(raw any, sanitizer *validator.Sanitizer) (Value, error) {
	if s, ok := raw.(string); ok {
		raw = sanitizer.Sanitize(s)
	}
	return classify(raw)
}
