package engine

import "time"

// =============================================================================
// PAY PERIOD - The time boundary one calculation covers
// =============================================================================

// PayFrequency determines the annualization factor when applying
// year-denominated tax rules to a periodic figure. Monthly is the only
// frequency the surrounding console runs today; the factor is data so that
// weekly or biweekly payrolls need no change to the bracket walk.
type PayFrequency string

const (
	FrequencyMonthly  PayFrequency = "monthly"
	FrequencyBiweekly PayFrequency = "biweekly"
	FrequencyWeekly   PayFrequency = "weekly"
)

// PeriodsPerYear returns the annualization factor for the frequency.
// Unknown frequencies are a validation error, not a silent default.
func (f PayFrequency) PeriodsPerYear() (int, error) {
	switch f {
	case FrequencyMonthly:
		return 12, nil
	case FrequencyBiweekly:
		return 26, nil
	case FrequencyWeekly:
		return 52, nil
	default:
		return 0, &ValidationError{Field: "frequency", Value: string(f), Reason: "unknown pay frequency"}
	}
}

// PayPeriod identifies the span a PayrollEntry covers.
type PayPeriod struct {
	Start     time.Time    `json:"start"`
	End       time.Time    `json:"end"`
	Frequency PayFrequency `json:"frequency"`
}

// Validate rejects a period whose end precedes its start.
func (p PayPeriod) Validate() error {
	if p.End.Before(p.Start) {
		return &ValidationError{Field: "period", Value: p.String(), Reason: "end before start"}
	}
	_, err := p.Frequency.PeriodsPerYear()
	return err
}

func (p PayPeriod) String() string {
	return "[" + p.Start.Format("2006-01-02") + ", " + p.End.Format("2006-01-02") + "]"
}

// Contains returns true if t falls within [Start, End].
func (p PayPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// MonthlyPeriod builds the calendar-month period for the given year/month.
func MonthlyPeriod(year int, month time.Month) PayPeriod {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return PayPeriod{
		Start:     start,
		End:       start.AddDate(0, 1, -1),
		Frequency: FrequencyMonthly,
	}
}
