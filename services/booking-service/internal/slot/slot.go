// Package slot holds the HH:MM arithmetic behind the booking grid. All
// functions are pure; persistence and HTTP stay out.
package slot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/barberlink-app/barberlink/services/booking-service/internal/model"
)

// EndTime adds a service duration to an HH:MM start. Minutes wrap at 60 but
// the hour is deliberately not reduced modulo 24: a 23:50 start of a 30
// minute cut yields "24:20", which the grid and the stored record both use.
// Wrapping it would make the end time sort before the start time of the
// same appointment and break the day views, so the value is kept as-is.
func EndTime(start string, durationMinutes int) (string, error) {
	h, m, err := parseClock(start)
	if err != nil {
		return "", err
	}
	total := h*60 + m + durationMinutes
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}

// parseClock accepts strict HH:MM (zero padded, 24h).
func parseClock(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("invalid time %q", s)
	}
	return h, m, nil
}

// Minutes converts HH:MM to minutes since midnight. Unlike parseClock it
// accepts hours >= 24 so computed end times stay comparable.
func Minutes(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return h*60 + m, nil
}

// WithinWindow reports whether [start, start+duration) fits inside the
// professional's working window.
func WithinWindow(start string, durationMinutes int, workStart, workEnd string) (bool, error) {
	s, err := Minutes(start)
	if err != nil {
		return false, err
	}
	ws, err := Minutes(workStart)
	if err != nil {
		return false, err
	}
	we, err := Minutes(workEnd)
	if err != nil {
		return false, err
	}
	return s >= ws && s+durationMinutes <= we, nil
}

// Overlaps reports whether two half-open HH:MM intervals intersect.
func Overlaps(aStart, aEnd, bStart, bEnd string) (bool, error) {
	as, err := Minutes(aStart)
	if err != nil {
		return false, err
	}
	ae, err := Minutes(aEnd)
	if err != nil {
		return false, err
	}
	bs, err := Minutes(bStart)
	if err != nil {
		return false, err
	}
	be, err := Minutes(bEnd)
	if err != nil {
		return false, err
	}
	return as < be && bs < ae, nil
}

// FilterByDay keeps appointments whose date equals day, format-exact.
func FilterByDay(appts []model.Appointment, day string) []model.Appointment {
	out := make([]model.Appointment, 0, len(appts))
	for _, a := range appts {
		if a.Date == day {
			out = append(out, a)
		}
	}
	return out
}

// FilterByMonth keeps appointments whose date starts with the YYYY-MM prefix.
func FilterByMonth(appts []model.Appointment, month string) []model.Appointment {
	out := make([]model.Appointment, 0, len(appts))
	for _, a := range appts {
		if strings.HasPrefix(a.Date, month) {
			out = append(out, a)
		}
	}
	return out
}

// Labels enumerates grid labels from open to close on a fixed step,
// e.g. 09:00, 09:30, ... 17:30 for a 09:00-18:00 window and 30min step.
func Labels(open, close string, stepMinutes int) ([]string, error) {
	if stepMinutes <= 0 {
		return nil, fmt.Errorf("invalid step %d", stepMinutes)
	}
	start, err := Minutes(open)
	if err != nil {
		return nil, err
	}
	end, err := Minutes(close)
	if err != nil {
		return nil, err
	}
	var labels []string
	for t := start; t < end; t += stepMinutes {
		labels = append(labels, fmt.Sprintf("%02d:%02d", t/60, t%60))
	}
	return labels, nil
}
