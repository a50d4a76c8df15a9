// Package chart renders the dashboard as a single go-echarts HTML page.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"sealevel/internal/coordinator"
	"sealevel/internal/fetcher"
	"sealevel/internal/report"
	"sealevel/internal/series"
)

// PageTitle is the HTML title of the dashboard page.
const PageTitle = "해수면 상승과 청소년의 미래"

const (
	chartWidth      = "900px"
	chartHeight     = "420px"
	dateLayout      = "2006-01-02"
	sourceCaption   = "데이터 출처 시도: %s"
	reportCaption   = "데이터: 보고서 계획표 기반 합성 데이터 (앱 내 생성)"
	displayDecimals = 4
)

// ErrNoSnapshot is returned when there is nothing to render.
var ErrNoSnapshot = errors.New("no snapshot to render")

// RenderDashboard writes the full dashboard page for snap to w.
func RenderDashboard(w io.Writer, snap *coordinator.Snapshot, options report.Options) error {
	if snap == nil {
		return ErrNoSnapshot
	}

	page := components.NewPage()
	page.PageTitle = PageTitle
	page.SetLayout(components.PageFlexLayout)

	if result, ok := snap.Result(coordinator.DatasetGlobal); ok {
		page.AddCharts(globalChart(result))
	}
	if result, ok := snap.Result(coordinator.DatasetRegional); ok {
		page.AddCharts(regionalChart(result))
	}
	page.AddCharts(
		countryChart(report.CountryTrends),
		userTimeSeriesChart(report.NewUserTimeSeries(series.CurrentYear(), options.Smooth), options),
		surveyChart(report.Survey),
		labeledBarChart(report.AgeDistribution, "연령대"),
		labeledBarChart(report.JobsOpinion, "인식"),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

func initOpts() charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		Theme:  types.ThemeWesteros,
		Width:  chartWidth,
		Height: chartHeight,
	})
}

func caption(result fetcher.FetchResult) string {
	return fmt.Sprintf(sourceCaption, result.Provenance.Source)
}

func globalChart(result fetcher.FetchResult) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: "전세계 평균 해수면 변화", Subtitle: caption(result)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", XAxisIndex: []int{0}}),
		charts.WithXAxisOpts(opts.XAxis{Name: "연도", Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "값(원본 단위)", Scale: opts.Bool(true)}),
	)
	x, y := seriesData(result.Points())
	line.SetXAxis(x).AddSeries("해수면", y,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	return line
}

func regionalChart(result fetcher.FetchResult) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: "대한민국 연안 해수면 변화 (관측 기준)", Subtitle: caption(result)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "연도", Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "해수면 누적 변화 (cm)"}),
	)
	x, y := seriesData(result.Points())
	line.SetXAxis(x).AddSeries("해수면 누적 변화 (cm)", y,
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
	)
	return line
}

func countryChart(countries []report.Country) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: "국가별 해수면 상승률(mm/yr)"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "mm/yr"}),
	)
	names := make([]string, len(countries))
	data := make([]opts.BarData, len(countries))
	for i, c := range countries {
		names[i] = c.Name
		data[i] = opts.BarData{
			Name:  fmt.Sprintf("%s (%.1f, %.1f)", c.Name, c.Lat, c.Lon),
			Value: c.TrendMMPerYear,
		}
	}
	bar.SetXAxis(names).AddSeries("해수면 상승률", data)
	return bar
}

func userTimeSeriesChart(ts report.UserTimeSeries, options report.Options) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: "(보고서 기반) 지난 20년 기온 이상 vs 해수면 누적 변화", Subtitle: reportCaption}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "연도", Type: "category"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "기온 이상 (℃)"}),
	)
	line.ExtendYAxis(opts.YAxis{Name: "해수면 누적 (cm)", Position: "right"})

	years := ts.Years()
	x := make([]string, len(years))
	for i, y := range years {
		x[i] = strconv.Itoa(y)
	}
	line.SetXAxis(x)

	markers := charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)})
	if options.ShowTemp {
		line.AddSeries("기온 이상 (℃)", lineData(ts.TempLine()), markers)
	}
	if options.ShowSea {
		line.AddSeries("해수면 누적 (cm)", lineData(ts.SeaLine()),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true), YAxisIndex: 1}),
		)
	}
	return line
}

func surveyChart(set report.LabeledSet) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: set.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Bottom: "0"}),
	)
	data := make([]opts.PieData, len(set.Items))
	for i, item := range set.Items {
		data[i] = opts.PieData{Name: item.Label, Value: item.Value}
	}
	pie.AddSeries(set.ValueColumn, data).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c}%"}))
	return pie
}

func labeledBarChart(set report.LabeledSet, axisName string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		initOpts(),
		charts.WithTitleOpts(opts.Title{Title: set.Title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: axisName}),
		charts.WithYAxisOpts(opts.YAxis{Name: "비율(%)"}),
	)
	data := make([]opts.BarData, len(set.Items))
	for i, item := range set.Items {
		data[i] = opts.BarData{Value: item.Value}
	}
	bar.SetXAxis(set.Labels()).AddSeries(set.ValueColumn, data)
	return bar
}

func seriesData(points []series.Point) ([]string, []opts.LineData) {
	x := make([]string, len(points))
	y := make([]opts.LineData, len(points))
	for i, p := range points {
		x[i] = p.Date.Format(dateLayout)
		y[i] = opts.LineData{Value: round(p.Value)}
	}
	return x, y
}

func lineData(values []float64) []opts.LineData {
	out := make([]opts.LineData, len(values))
	for i, v := range values {
		out[i] = opts.LineData{Value: round(v)}
	}
	return out
}

func round(v float64) float64 {
	scale := math.Pow10(displayDecimals)
	return math.Round(v*scale) / scale
}
