package encoding

import "github.com/nimblefmt/nimble/bitio"

// Encoding is the decode-side contract every value codec of §4.1 exposes.
// T is the logical value type the encoding materializes (e.g. int32,
// float64, string, bool, or uint32 for a lengths/indices sub-stream).
type Encoding[T any] interface {
	// Header returns the encoding's parsed header.
	Header() Header

	// Materialize writes the next n logical values into out, advancing
	// position by n. It returns errs.ErrDecoderStateExhausted if fewer
	// than n values remain.
	Materialize(n int, out []T) error

	// MaterializeNullable writes into out[i] for every i in [0, n) where
	// present.Get(i) is true, drawing values from the encoding in order;
	// positions where present.Get(i) is false are left unmodified. It
	// advances position by the number of present bits consumed.
	MaterializeNullable(n int, out []T, present *bitio.BoolBitSet) error

	// Skip advances position by n values without materialising them.
	Skip(n int) error

	// Reset returns the encoding to position 0.
	Reset()
}

// materializer is the minimal capability materializeNullableDefault needs;
// every concrete encoding in this package satisfies it trivially since
// Materialize is already part of Encoding[T].
type materializer[T any] interface {
	Materialize(n int, out []T) error
}

// materializeNullableDefault implements MaterializeNullable in terms of
// Materialize alone, one present value at a time. It is correct for every
// encoding and is what every encoding but Nullable delegates to; Nullable
// overrides it since it must track its own null bitmap against the
// caller-supplied present bits simultaneously.
func materializeNullableDefault[T any](e materializer[T], n int, out []T, present *bitio.BoolBitSet) error {
	for i := 0; i < n; i++ {
		if !present.Get(i) {
			continue
		}
		if err := e.Materialize(1, out[i:i+1]); err != nil {
			return err
		}
	}

	return nil
}
