package encoding

import (
	"github.com/nimblefmt/nimble/format"
)

// LayoutHint seeds the selector with a previously recorded encoding
// choice (§4.1, §4.4's training pass). When set, the selector uses the
// hint's Kind as given, without checking it against the statistics of the
// data at hand. Children line up with the chosen kind's
// sub-streams (e.g. RLE: [runLengths, runValues]; Dictionary: [alphabet,
// indices]).
type LayoutHint struct {
	Kind     format.EncodingKind
	Children []*LayoutHint
}

// stats summarizes a value sequence the way §4.1's selection policy
// describes: distinct count, run structure, and dominance of one value.
type stats struct {
	count       int
	distinct    int
	runCount    int
	modeCount   int
	modeIsFirst bool
}

func gatherStats[T comparable](values []T) stats {
	s := stats{count: len(values)}
	if len(values) == 0 {
		return s
	}

	counts := make(map[T]int, len(values))
	for _, v := range values {
		counts[v]++
	}
	s.distinct = len(counts)

	for _, c := range counts {
		if c > s.modeCount {
			s.modeCount = c
		}
	}

	lengths, _ := computeRuns(values)
	s.runCount = len(lengths)

	return s
}

func mode[T comparable](values []T) T {
	counts := make(map[T]int, len(values))
	var best T
	bestCount := -1
	for _, v := range values {
		counts[v]++
		if counts[v] > bestCount {
			bestCount = counts[v]
			best = v
		}
	}

	return best
}

// Select chooses and runs an encoding for values, recursing into
// sub-streams per §4.1's selection policy. hint, if non-nil, biases the
// top-level choice toward a previously recorded layout; recursive calls on
// sub-streams pass the corresponding child hint (or nil, once the hint
// tree is exhausted).
func Select[T comparable](values []T, hint *LayoutHint) ([]byte, error) {
	if len(values) == 0 {
		return encodeTrivialAny(values)
	}

	s := gatherStats(values)
	if s.distinct == 1 {
		return EncodeConstant(values[0], len(values))
	}

	dt, _ := dataTypeOf[T]()

	kind := chooseKind(dt, s, hint)

	switch kind {
	case format.EncodingRLE:
		if dt == format.DataTypeBool {
			return EncodeRLEBool(any(values).([]bool))
		}
		return EncodeRLE(values, func(runValues []T) ([]byte, error) {
			return Select(runValues, childHint(hint, 1))
		})

	case format.EncodingDictionary:
		return EncodeDictionary(values,
			func(alphabet []T) ([]byte, error) { return Select(alphabet, childHint(hint, 0)) },
			func(indices []uint32) ([]byte, error) { return EncodeFixedBitPacked(indices) },
		)

	case format.EncodingMainlyConstant:
		common := mode(values)
		return EncodeMainlyConstant(values, common, func(other []T) ([]byte, error) {
			return Select(other, childHint(hint, 0))
		})

	case format.EncodingSparseBool:
		return EncodeSparseBool(any(values).([]bool), func(indices []uint32) ([]byte, error) {
			return EncodeFixedBitPacked(indices)
		})

	case format.EncodingFixedBitPacked:
		if payload, err := EncodeFixedBitPacked(values); err == nil {
			return payload, nil
		}
		return encodeTrivialAny(values)

	default:
		return encodeTrivialAny(values)
	}
}

func childHint(hint *LayoutHint, i int) *LayoutHint {
	if hint == nil || i >= len(hint.Children) {
		return nil
	}
	return hint.Children[i]
}

// chooseKind applies the stats-driven heuristic §4.1 describes, honoring
// hint when present.
func chooseKind(dt format.DataType, s stats, hint *LayoutHint) format.EncodingKind {
	if hint != nil {
		return hint.Kind
	}

	if dt == format.DataTypeBool {
		avgRun := float64(s.count) / float64(s.runCount)
		dominance := float64(s.modeCount) / float64(s.count)
		switch {
		case dominance >= 0.98:
			return format.EncodingSparseBool
		case avgRun >= 4:
			return format.EncodingRLE
		default:
			return format.EncodingTrivial
		}
	}

	avgRun := float64(s.count) / float64(s.runCount)
	distinctRatio := float64(s.distinct) / float64(s.count)
	dominance := float64(s.modeCount) / float64(s.count)

	switch {
	case avgRun >= 4:
		return format.EncodingRLE
	case dominance >= 0.9:
		return format.EncodingMainlyConstant
	case s.distinct > 1 && distinctRatio <= 0.5:
		return format.EncodingDictionary
	case isIntegerDataType(dt):
		return format.EncodingFixedBitPacked
	default:
		return format.EncodingTrivial
	}
}

func isIntegerDataType(dt format.DataType) bool {
	switch dt {
	case format.DataTypeInt8, format.DataTypeUint8, format.DataTypeInt16, format.DataTypeUint16,
		format.DataTypeInt32, format.DataTypeUint32, format.DataTypeInt64, format.DataTypeUint64:
		return true
	default:
		return false
	}
}

// encodeTrivialAny dispatches Trivial encoding based on T's runtime data
// type, the fallback every selection path bottoms out at.
func encodeTrivialAny[T any](values []T) ([]byte, error) {
	var zero T
	switch any(zero).(type) {
	case bool:
		return EncodeTrivialBool(any(values).([]bool)), nil
	case string:
		vs := any(values).([]string)
		bs := make([][]byte, len(vs))
		for i, v := range vs {
			bs[i] = []byte(v)
		}
		return EncodeTrivialVar(bs, false)
	case []byte:
		return EncodeTrivialVar(any(values).([][]byte), true)
	default:
		return EncodeTrivialFixed(values)
	}
}
