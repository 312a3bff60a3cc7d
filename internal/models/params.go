package models

// Params holds the per-user analysis parameters. Loaded once per run from
// configuration; read-only to the analysis packages.
type Params struct {
	// TimezoneOffsetHours is the user's UTC offset. May be fractional
	// (e.g. 5.5 for IST).
	TimezoneOffsetHours float64 `yaml:"timezone_offset_hours" mapstructure:"timezone_offset_hours"`

	// DayBoundaryHour is the hour (0-23, local) at which a coding day
	// starts. Activity before this hour counts toward the previous day.
	DayBoundaryHour int `yaml:"day_boundary_hour" mapstructure:"day_boundary_hour"`

	// PeriodDayBoundaries optionally overrides the boundary hour for a
	// named period.
	PeriodDayBoundaries map[string]int `yaml:"period_day_boundaries" mapstructure:"period_day_boundaries"`
}

// BoundaryFor returns the day-boundary hour for a named period, falling back
// to the global setting when no override exists.
func (p Params) BoundaryFor(period string) int {
	if h, ok := p.PeriodDayBoundaries[period]; ok {
		return h
	}
	return p.DayBoundaryHour
}
