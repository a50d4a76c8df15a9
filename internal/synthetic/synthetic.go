// Package synthetic generates the deterministic series used when no remote
// source can be reached.
package synthetic

import (
	"sealevel/internal/series"
)

// Generator produces a synthetic series ending in the given year.
type Generator interface {
	Generate(endYear int) []series.Point
	// Label describes the series in provenance captions.
	Label() string
}

// GlobalCurve is a smooth, monotonically increasing cumulative curve:
// cumsum(linspace(0, Slope, n)) * Scale over [StartYear, endYear].
type GlobalCurve struct {
	StartYear int
	Slope     float64
	Scale     float64
}

// DefaultGlobal is the built-in global mean sea level stand-in.
var DefaultGlobal = GlobalCurve{StartYear: 1880, Slope: 0.0045, Scale: 100}

const (
	globalLabel   = "내장 예시 데이터 (공개 소스 불가)"
	regionalLabel = "(보고서 기반 대한민국 연안 데이터)"
)

func (g GlobalCurve) Label() string { return globalLabel }

func (g GlobalCurve) Generate(endYear int) []series.Point {
	n := endYear - g.StartYear + 1
	if n <= 0 {
		return nil
	}
	points := make([]series.Point, n)
	var cum float64
	for i := 0; i < n; i++ {
		step := 0.0
		if n > 1 {
			step = g.Slope * float64(i) / float64(n-1)
		}
		cum += step
		points[i] = series.Point{Date: series.YearStart(g.StartYear + i), Value: cum * g.Scale}
	}
	return points
}

// Regime is an annual increment applied to every year before Until.
// Until of zero marks the open-ended last regime.
type Regime struct {
	Until     int
	Increment float64
}

// RegimeSeries cumulates a piecewise-constant annual increment over
// [StartYear, endYear] and multiplies the running sum by Scale.
type RegimeSeries struct {
	StartYear int
	Regimes   []Regime
	Scale     float64
	Name      string
}

// KoreaCoastRegimes are the annual rise rates (m/yr) reported for the Korean
// coast. Boundaries and rates are literal report figures.
var KoreaCoastRegimes = []Regime{
	{Until: 2001, Increment: 0.00380},
	{Until: 2011, Increment: 0.00013},
	{Until: 0, Increment: 0.00427},
}

// DefaultRegional is the built-in Korean coastal series in centimetres:
// metres * 1000 gives millimetres, / 10 gives centimetres.
var DefaultRegional = RegimeSeries{
	StartYear: 1991,
	Regimes:   KoreaCoastRegimes,
	Scale:     1000.0 / 10.0,
	Name:      regionalLabel,
}

func (r RegimeSeries) Label() string { return r.Name }

func (r RegimeSeries) Generate(endYear int) []series.Point {
	n := endYear - r.StartYear + 1
	if n <= 0 {
		return nil
	}
	points := make([]series.Point, n)
	var cum float64
	for i := 0; i < n; i++ {
		year := r.StartYear + i
		cum += r.increment(year)
		points[i] = series.Point{Date: series.YearStart(year), Value: cum * r.Scale}
	}
	return points
}

func (r RegimeSeries) increment(year int) float64 {
	for _, reg := range r.Regimes {
		if reg.Until == 0 || year < reg.Until {
			return reg.Increment
		}
	}
	return 0
}
