package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/iliyamo/hotel-management/internal/model"
)

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// parseDate accepts calendar dates and ISO 8601 timestamps. Values without
// a zone are read as UTC.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// stay is the half-open interval [in, out).
type stay struct {
	in, out time.Time
}

// parseStay validates a requested range: both dates must parse and
// checkIn must be strictly before checkOut.
func parseStay(checkIn, checkOut string) (stay, error) {
	in, ok := parseDate(checkIn)
	if !ok {
		return stay{}, fmt.Errorf("%w: %q", ErrInvalidDate, checkIn)
	}
	out, ok := parseDate(checkOut)
	if !ok {
		return stay{}, fmt.Errorf("%w: %q", ErrInvalidDate, checkOut)
	}
	if !in.Before(out) {
		return stay{}, ErrInvalidRange
	}
	return stay{in: in, out: out}, nil
}

// bookingStay reads the stored range of b. Unparseable dates yield false
// and such bookings never overlap anything.
func bookingStay(b model.Hold) (stay, bool) {
	in, ok1 := parseDate(b.CheckInDate)
	out, ok2 := parseDate(b.CheckOutDate)
	return stay{in: in, out: out}, ok1 && ok2
}

// overlaps is the half-open test: a.in < b.out && a.out > b.in.
func (s stay) overlaps(o stay) bool {
	return s.in.Before(o.out) && s.out.After(o.in)
}

// nights counts started days.
func (s stay) nights() int64 {
	return int64(math.Ceil(s.out.Sub(s.in).Hours() / 24))
}
