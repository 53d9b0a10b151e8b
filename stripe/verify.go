package stripe

import "fmt"

// Verify checks structural footer invariants before any stripe content is
// trusted: the stream table count matches the stripe count, stripe offsets
// are strictly increasing, and no stripe has a negative row count.
func Verify(t *Tablet) error {
	stripes := t.footer.Stripes
	streams := t.footer.Streams

	if len(streams) != len(stripes) {
		return fmt.Errorf("stripe table has %d entries but stream table has %d", len(stripes), len(streams))
	}

	var prevOffset int64 = -1
	for i, s := range stripes {
		if s.Offset <= prevOffset {
			return fmt.Errorf("stripe %d offset %d is not strictly increasing from stripe %d's %d", i, s.Offset, i-1, prevOffset)
		}
		if s.RowCount < 0 {
			return fmt.Errorf("stripe %d has negative row count %d", i, s.RowCount)
		}
		prevOffset = s.Offset
	}

	return nil
}
