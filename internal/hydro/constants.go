// Package hydro holds the column names shared across hydrological tables.
package hydro

const (
	// TimeseriesColumn names the column holding observation timestamps.
	TimeseriesColumn = "Timeseries"

	// IntervalColumn labels the spacing of a timeseries in reports.
	IntervalColumn = "Interval"
)
