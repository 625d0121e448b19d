package client

import (
	"fmt"
	"time"
)

// Translations holds the per-locale strings the widget interpolates.
// The magnitude is prepended to the suffix as-is; there are no plural forms,
// so "1 minutes ago" is the expected English output.
type Translations struct {
	GuestName  string
	JustNow    string
	MinutesAgo string
	HoursAgo   string
	DaysAgo    string
}

// EnglishTranslations returns the default widget strings.
func EnglishTranslations() Translations {
	return Translations{
		GuestName:  "Guest",
		JustNow:    "just now",
		MinutesAgo: "minutes ago",
		HoursAgo:   "hours ago",
		DaysAgo:    "days ago",
	}
}

// TimeAgo renders the relative-time label for a comment timestamp:
// under a minute "just now", then minutes, hours past 60, days past 1440,
// each with integer-floor division.
func (w *Widget) TimeAgo(createdAt, now time.Time) string {
	minutes := int(now.Sub(createdAt).Minutes())
	switch {
	case minutes < 1:
		return w.tr.JustNow
	case minutes < 60:
		return fmt.Sprintf("%d %s", minutes, w.tr.MinutesAgo)
	case minutes < 1440:
		return fmt.Sprintf("%d %s", minutes/60, w.tr.HoursAgo)
	default:
		return fmt.Sprintf("%d %s", minutes/1440, w.tr.DaysAgo)
	}
}
