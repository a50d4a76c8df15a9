package report

import (
	"math/rand/v2"
	"time"

	"sealevel/internal/series"
)

// Column headers of the user time series.
const (
	ColumnDate       = "date"
	ColumnTemp       = "기온이상(℃)"
	ColumnSea        = "해수면_누적(cm)"
	SmoothedSuffix   = "_스무딩"
	earliestYear     = 2005
	windowYears      = 20
	smoothingWindow  = 3
	noiseSeed        = 42
	noiseStdDev      = 0.05
	tempStart        = 0.2
	tempEnd          = 1.0
	seaSensitivity   = 0.8
	seaBaselineDrift = 0.3
)

// YearRow is one year of the user time series.
type YearRow struct {
	Date       time.Time `json:"date"`
	Temp       float64   `json:"temp_anomaly"`
	Sea        float64   `json:"sea_level_cm"`
	TempSmooth float64   `json:"temp_anomaly_smoothed,omitempty"`
	SeaSmooth  float64   `json:"sea_level_cm_smoothed,omitempty"`
}

// UserTimeSeries is the synthetic "last 20 years" temperature anomaly and
// cumulative sea level table. It is deterministic for a given end year.
type UserTimeSeries struct {
	Rows     []YearRow `json:"rows"`
	Smoothed bool      `json:"smoothed"`
}

// NewUserTimeSeries builds the table for [max(2005, endYear-19), endYear].
// The temperature anomaly is a linear ramp plus seeded Gaussian noise; sea
// level cumulates the centred anomaly scaled by 0.8 plus a 0.3 drift.
func NewUserTimeSeries(endYear int, smooth bool) UserTimeSeries {
	start := max(earliestYear, endYear-(windowYears-1))
	n := endYear - start + 1
	if n <= 0 {
		return UserTimeSeries{Smoothed: smooth}
	}

	rng := rand.New(rand.NewPCG(noiseSeed, 0))
	temp := Linspace(tempStart, tempEnd, n)
	for i := range temp {
		temp[i] += rng.NormFloat64() * noiseStdDev
	}

	mean := Mean(temp)
	sea := make([]float64, n)
	var cum float64
	for i, t := range temp {
		cum += (t-mean)*seaSensitivity + seaBaselineDrift
		sea[i] = cum
	}

	rows := make([]YearRow, n)
	for i := range rows {
		rows[i] = YearRow{Date: series.YearStart(start + i), Temp: temp[i], Sea: sea[i]}
	}
	if smooth {
		tempSmooth := RollingMean(temp, smoothingWindow)
		seaSmooth := RollingMean(sea, smoothingWindow)
		for i := range rows {
			rows[i].TempSmooth = tempSmooth[i]
			rows[i].SeaSmooth = seaSmooth[i]
		}
	}
	return UserTimeSeries{Rows: rows, Smoothed: smooth}
}

// Columns returns the header row, including the smoothed columns when present.
func (u UserTimeSeries) Columns() []string {
	cols := []string{ColumnDate, ColumnTemp, ColumnSea}
	if u.Smoothed {
		cols = append(cols, ColumnTemp+SmoothedSuffix, ColumnSea+SmoothedSuffix)
	}
	return cols
}

// TempLine returns the temperature values to plot, smoothed when available.
func (u UserTimeSeries) TempLine() []float64 {
	out := make([]float64, len(u.Rows))
	for i, r := range u.Rows {
		out[i] = r.Temp
		if u.Smoothed {
			out[i] = r.TempSmooth
		}
	}
	return out
}

// SeaLine returns the sea level values to plot, smoothed when available.
func (u UserTimeSeries) SeaLine() []float64 {
	out := make([]float64, len(u.Rows))
	for i, r := range u.Rows {
		out[i] = r.Sea
		if u.Smoothed {
			out[i] = r.SeaSmooth
		}
	}
	return out
}

// Years returns the year of every row.
func (u UserTimeSeries) Years() []int {
	out := make([]int, len(u.Rows))
	for i, r := range u.Rows {
		out[i] = r.Date.Year()
	}
	return out
}
