package daily

import "time"

// Layouts of the canonical time of day and date strings
const (
	TimeLayout = "15:04"
	DateLayout = "2006-01-02"
)

// ValidTime accepts zero padded 24 hour HH:MM only. Slots are grouped on the
// exact string and schedules ordered on its digits, both agree only for this form.
func ValidTime(s string) bool {
	if len(s) != len(TimeLayout) {
		return false
	}

	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

// ValidDate accepts YYYY-MM-DD
func ValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}

	_, err := time.Parse(DateLayout, s)
	return err == nil
}
