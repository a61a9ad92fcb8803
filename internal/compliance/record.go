package compliance

import (
	"time"

	"github.com/google/uuid"

	"fairworkly/pkg/domain"
)

// PayRecord is one employee pay line materialised from a submitted row.
// Built once by the orchestrator, owned by exactly one validation run, and
// never mutated after construction.
type PayRecord struct {
	ID             uuid.UUID
	RunID          domain.RunID
	EmployeeID     domain.EmployeeID
	EmployeeName   string
	EmployeeNumber string

	Award          domain.AwardCode
	Classification string // raw classification label from the file
	Level          int    // parsed classification level (1-8)
	Category       domain.EmploymentCategory

	HourlyRate float64

	OrdinaryHours      float64
	OrdinaryPay        float64
	SaturdayHours      float64
	SaturdayPay        float64
	SundayHours        float64
	SundayPay          float64
	PublicHolidayHours float64
	PublicHolidayPay   float64

	GrossPay  float64
	SuperPaid float64

	PeriodStart time.Time
	PeriodEnd   time.Time
}

// DayHours returns the hours worked on the given penalty day type.
func (r *PayRecord) DayHours(d domain.DayType) float64 {
	switch d {
	case domain.DaySaturday:
		return r.SaturdayHours
	case domain.DaySunday:
		return r.SundayHours
	case domain.DayPublicHoliday:
		return r.PublicHolidayHours
	}
	return 0
}

// DayPay returns the pay received for the given penalty day type.
func (r *PayRecord) DayPay(d domain.DayType) float64 {
	switch d {
	case domain.DaySaturday:
		return r.SaturdayPay
	case domain.DaySunday:
		return r.SundayPay
	case domain.DayPublicHoliday:
		return r.PublicHolidayPay
	}
	return 0
}
