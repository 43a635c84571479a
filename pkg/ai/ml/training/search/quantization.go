package search

import "context"

// QuantTriple is the three coordinates that determine a quantization:
// bin count, border type, NaN mode.
type QuantTriple struct {
	BinCount   int64
	BorderType string
	NanMode    string
}

// quantizationCache re-quantizes (and, in train/test mode, re-splits)
// only when the candidate's quantization triple differs from the last
// one it served — candidates that only vary an "other" axis reuse the
// previous handle (§5, quantization cache invariant).
type quantizationCache struct {
	quantizer    Quantizer
	splitter     Splitter
	useTrainTest bool

	hasLast bool
	last    QuantTriple
	handle  QuantizedFeaturesHandle
	split   *SplitData
}

func newQuantizationCache(q Quantizer, sp Splitter, useTrainTest bool) *quantizationCache {
	return &quantizationCache{quantizer: q, splitter: sp, useTrainTest: useTrainTest}
}

// ensure returns the quantized handle (and, in train/test mode, the
// split) for triple, re-quantizing only on a cache miss.
func (c *quantizationCache) ensure(ctx context.Context, triple QuantTriple, data TrainingData, splitParams SplitParams) (QuantizedFeaturesHandle, *SplitData, error) {
	if c.hasLast && c.last == triple {
		return c.handle, c.split, nil
	}

	handle, err := c.quantizer.Quantize(ctx, data, QuantizationOptions{
		BinCount:   triple.BinCount,
		BorderType: triple.BorderType,
		NanMode:    triple.NanMode,
	})
	if err != nil {
		return nil, nil, SearchDataf(err, "quantization failed for bin_count=%d border_type=%s nan_mode=%s", triple.BinCount, triple.BorderType, triple.NanMode)
	}

	var split *SplitData
	if c.useTrainTest {
		split, err = c.splitter.Split(ctx, handle, splitParams)
		if err != nil {
			return nil, nil, SearchDataf(err, "train/test split failed")
		}
	}

	c.hasLast = true
	c.last = triple
	c.handle = handle
	c.split = split
	return handle, split, nil
}
