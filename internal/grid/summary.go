package grid

import (
	"fmt"
	"io"
)

// Summary describes a coordinate set at a glance.
type Summary struct {
	Count  int
	Bounds Bounds
	// Head holds up to the first N coordinates in input order.
	Head CoordinateSet
}

// Summarize builds a Summary keeping at most head leading coordinates.
// Bounds are left zero for an empty set.
func Summarize(cs CoordinateSet, head int) Summary {
	s := Summary{Count: len(cs)}
	if b, err := cs.Bounds(); err == nil {
		s.Bounds = b
	}
	if head > len(cs) {
		head = len(cs)
	}
	if head > 0 {
		s.Head = cs[:head].Clone()
	}
	return s
}

// WriteTo prints the summary in a human-readable form.
func (s Summary) WriteTo(w io.Writer) (int64, error) {
	var total int64
	printf := func(format string, args ...interface{}) error {
		n, err := fmt.Fprintf(w, format, args...)
		total += int64(n)
		return err
	}

	if err := printf("coordinates: %d\n", s.Count); err != nil {
		return total, err
	}
	if len(s.Head) > 0 {
		if err := printf("\nfirst %d coordinates:\n", len(s.Head)); err != nil {
			return total, err
		}
		for i, c := range s.Head {
			if err := printf("  %d: %s\n", i+1, c); err != nil {
				return total, err
			}
		}
	}
	if s.Count > 0 {
		if err := printf("\nx range: %d to %d\ny range: %d to %d\nextent: %d x %d pixels\n",
			s.Bounds.MinX, s.Bounds.MaxX, s.Bounds.MinY, s.Bounds.MaxY,
			s.Bounds.Width(), s.Bounds.Height()); err != nil {
			return total, err
		}
	}
	return total, nil
}
