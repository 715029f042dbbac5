package models

// AppState is process-independent bookkeeping persisted next to the reminders.
type AppState struct {
	LastDailyPopupDate string `json:"last_daily_popup_date,omitempty"`
}

// ShouldShowDailySummary reports whether the once-per-day summary is still pending for today.
func (s *AppState) ShouldShowDailySummary(today string) bool {
	return s.LastDailyPopupDate != today
}
