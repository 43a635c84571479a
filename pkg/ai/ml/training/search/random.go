package search

import (
	"context"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Generator samples one concrete numeric value for a deferred-random
// search-space coordinate. Invoked once per resolution, never cached
// across evaluations (§4.E: resolution happens per evaluation, not at
// enumeration).
type Generator func(ctx context.Context) (float64, error)

// GeneratorRegistry maps a RandomRef's sentinel string to the Generator
// it resolves to.
type GeneratorRegistry map[string]Generator

// Built-in registry keys for the two distributions this library ships.
// A caller who wants a different shape registers its own key and
// Generator; caller entries take priority over these via plain map
// overwrite in NewRegistry.
const (
	UniformGeneratorKey = RandomRefSentinel + "_Uniform"
	NormalGeneratorKey  = RandomRefSentinel + "_Normal"
)

// NewRegistry builds the effective generator registry for one search
// run: the built-in Uniform(0,1) and Normal(0,1) samplers, overlaid with
// the caller's own entries (a caller key of the same name wins). The
// two built-ins run on distuv's own default source, unconfigured, the
// same way the rest of this corpus reaches for distuv.UnitNormal —
// determinism of a search run is owned by the iterator's draw seed
// (§4.C), not by the values a registered generator happens to produce.
func NewRegistry(overrides GeneratorRegistry) GeneratorRegistry {
	uniform := distuv.Uniform{Min: 0, Max: 1}
	normal := distuv.Normal{Mu: 0, Sigma: 1}

	reg := GeneratorRegistry{
		UniformGeneratorKey: func(ctx context.Context) (float64, error) {
			return uniform.Rand(), nil
		},
		NormalGeneratorKey: func(ctx context.Context) (float64, error) {
			return normal.Rand(), nil
		},
	}
	for k, v := range overrides {
		reg[k] = v
	}
	return reg
}

// classify turns one raw JSON-decoded (or Go-native) scalar into a
// Value, recognizing the random-distribution sentinel prefix. Any string
// beginning with RandomRefSentinel becomes a RandomRef; every other bool
// or string scalar passes through unchanged, and numeric scalars are
// normalized to int64 or float64 by normalizeNumeric.
func classify(raw any) (Value, error) {
	switch v := raw.(type) {
	case RandomRef:
		return v, nil
	case bool, int64, int, float64, float32, uint64, uint:
		return normalizeNumeric(v), nil
	case string:
		if strings.HasPrefix(v, RandomRefSentinel) {
			return RandomRef(v), nil
		}
		return v, nil
	default:
		return nil, SearchConfigf("unknown search-space value type %T", raw)
	}
}

// normalizeNumeric widens every Go integer/float kind JSON or a native
// caller might produce down to the two numeric Value shapes the rest of
// the package switches on: int64 and float64.
func normalizeNumeric(raw any) Value {
	switch v := raw.(type) {
	case bool:
		return v
	case int:
		return int64(v)
	case int64:
		return v
	case uint:
		return int64(v)
	case uint64:
		return int64(v)
	case float32:
		return float64(v)
	case float64:
		return v
	default:
		return v
	}
}

// resolveValue turns a RandomRef into a concrete float64 by invoking its
// registered Generator; every other Value passes through unchanged.
func resolveValue(ctx context.Context, registry GeneratorRegistry, v Value) (Value, error) {
	ref, ok := v.(RandomRef)
	if !ok {
		return v, nil
	}
	gen, ok := registry[string(ref)]
	if !ok {
		return nil, SearchConfigf("reference to unregistered random distribution %q", string(ref))
	}
	sample, err := gen(ctx)
	if err != nil {
		return nil, SearchConfigf("random generator %q failed: %v", string(ref), err)
	}
	return sample, nil
}

// resolveTuple resolves every RandomRef coordinate of tuple against
// registry, leaving concrete scalars untouched.
func resolveTuple(ctx context.Context, registry GeneratorRegistry, tuple CandidateTuple) (CandidateTuple, error) {
	out := make(CandidateTuple, len(tuple))
	for i, v := range tuple {
		resolved, err := resolveValue(ctx, registry, v)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

// validateRegistryRefs checks that every RandomRef reachable from sets
// names a key present in registry. Run once at parse time so an unknown
// reference is a ConfigError before any evaluation starts, even though
// actual resolution is deferred to evaluation time.
func validateRegistryRefs(sets [][]Value, registry GeneratorRegistry) error {
	for _, axis := range sets {
		for _, v := range axis {
			ref, ok := v.(RandomRef)
			if !ok {
				continue
			}
			if _, ok := registry[string(ref)]; !ok {
				return SearchConfigf("reference to unregistered random distribution %q", string(ref))
			}
		}
	}
	return nil
}
