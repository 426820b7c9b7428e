package models

// DaysOfWeek lists the valid day_of_week values, Monday first.
var DaysOfWeek = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// IsDayOfWeek reports whether day is a valid day_of_week value.
func IsDayOfWeek(day string) bool {
	for _, d := range DaysOfWeek {
		if d == day {
			return true
		}
	}
	return false
}

// BusinessHours represents a supplier's opening interval for one weekday.
// Times are "HH:MM" in local Romanian time.
type BusinessHours struct {
	ID         string `json:"id,omitempty"`
	SupplierID string `json:"supplier_id,omitempty"`
	DayOfWeek  string `json:"day_of_week"`
	OpenTime   string `json:"open_time"`
	CloseTime  string `json:"close_time"`
	Closed     bool   `json:"closed"`
}

// UpdateBusinessHoursRequest replaces the full weekly schedule.
type UpdateBusinessHoursRequest struct {
	Hours []BusinessHours `json:"hours"`
}
