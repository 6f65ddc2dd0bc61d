package leaderboard

import (
	"fmt"
	"time"
)

const TimeLayout = "Jan 02 15:04:05"

// Formatter renders star timestamps in the puzzle release time zone.
type Formatter struct {
	Location *time.Location
	Layout   string
}

var eastern = mustLoad("America/New_York")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// no tzdata on the host, AoC releases at UTC-5
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}

func DefaultFormatter() Formatter {
	return Formatter{Location: eastern, Layout: TimeLayout}
}

func NewFormatter(timezone string) (Formatter, error) {
	if len(timezone) == 0 {
		return DefaultFormatter(), nil
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Formatter{}, err
	}
	return Formatter{Location: loc, Layout: TimeLayout}, nil
}

func (f Formatter) Time(ts int64) time.Time {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.Unix(ts, 0).In(loc)
}

func (f Formatter) Format(ts int64) string {
	return f.FormatTime(time.Unix(ts, 0))
}

func (f Formatter) FormatTime(t time.Time) string {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	layout := f.Layout
	if len(layout) == 0 {
		layout = TimeLayout
	}
	return t.In(loc).Format(layout)
}

// unlockTime is when the puzzle for the given day became available.
func unlockTime(year int, day int) time.Time {
	return time.Date(year, time.December, day, 0, 0, 0, 0, eastern)
}

// FormatElapsed prints a duration as h:mm:ss, or with a day prefix past 24h.
func FormatElapsed(d time.Duration) string {
	if d <= 0 {
		return "-"
	}

	d = d.Round(time.Second)
	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second

	if days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", int(days), int(hours), int(minutes), int(seconds))
	}
	return fmt.Sprintf("%d:%02d:%02d", int(hours), int(minutes), int(seconds))
}
