package encoding

import "github.com/nimblefmt/nimble/bitio"

// nullableAware is implemented only by NullableEncoding; MaterializeWithPresence
// uses it to recover which of the n materialized rows were actually null,
// information Materialize alone discards (it leaves nulled slots at T's
// zero value, indistinguishable from a stored zero).
type nullableAware[T any] interface {
	materializeWithPresence(n int, out []T, present *bitio.BoolBitSet) error
}

// MaterializeWithPresence materializes the next n values from e into out,
// and records which of them were present (non-null) into present. Encodings
// other than Nullable never produce nulls, so present is set to all-true
// for them.
func MaterializeWithPresence[T any](e Encoding[T], n int, out []T, present *bitio.BoolBitSet) error {
	if na, ok := e.(nullableAware[T]); ok {
		return na.materializeWithPresence(n, out, present)
	}
	for i := 0; i < n; i++ {
		present.Set(i, true)
	}

	return e.Materialize(n, out)
}

func (e *NullableEncoding[T]) materializeWithPresence(n int, out []T, present *bitio.BoolBitSet) error {
	if err := e.Materialize(n, out); err != nil {
		return err
	}
	start := e.pos - n
	for i := 0; i < n; i++ {
		present.Set(i, e.nullBits.Get(start+i))
	}

	return nil
}
