package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/hray3182/nudge/internal/models"
)

// TimeAMPM renders a 24h "HH:MM" value as "03:30 PM". Empty input yields
// "N/A" and unparsable input is returned unchanged.
func TimeAMPM(hhmm string) string {
	if hhmm == "" {
		return "N/A"
	}
	t, err := time.Parse(models.TimeLayout, hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("03:04 PM")
}

// Notification is the text shown when a reminder fires.
func Notification(title, hhmm string) string {
	return fmt.Sprintf("Reminder: %s\nTime: %s", title, TimeAMPM(hhmm))
}

// Line renders one reminder as "03:30 PM - title".
func Line(r models.Reminder) string {
	return TimeAMPM(r.Time) + " - " + r.Title
}

// Summary renders a titled list of reminders, or the empty-period notice.
func Summary(title string, reminders []models.Reminder) string {
	if len(reminders) == 0 {
		return title + ":\n\nNo reminders to show for this period."
	}
	var b strings.Builder
	b.WriteString(title)
	b.WriteString(":\n\n")
	for _, r := range reminders {
		b.WriteString(Line(r))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
