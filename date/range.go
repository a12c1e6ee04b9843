package date

import "fmt"

// Range represents a closed range of dates.
type Range struct{ From, To Date }

// NewRange returns the range [from, to].
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(on Date) bool { return !on.Before(r.From) && !on.After(r.To) }

// Days returns the number of days in the range, boundaries included.
func (r Range) Days() int {
	if r.To.Before(r.From) {
		return 0
	}
	return int(r.To.time().Sub(r.From.time()).Hours()/24) + 1
}

func (r Range) String() string { return fmt.Sprintf("[%s, %s]", r.From, r.To) }
