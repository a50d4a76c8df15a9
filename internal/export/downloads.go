package export

import (
	"fmt"
	"sort"

	"sealevel/internal/coordinator"
	"sealevel/internal/report"
	"sealevel/internal/series"
)

// Download filenames offered by the dashboard.
const (
	KoreaSeaLevelFile  = "korea_sea_level.csv"
	UserTimeSeriesFile = "user_timeseries_report.csv"
	SurveyFile         = "survey_summary.csv"
	JobsOpinionFile    = "youth_jobs_opinion.csv"
)

// Builder produces the table behind one download.
type Builder func(snap *coordinator.Snapshot, opts report.Options) (Table, error)

// Downloads maps each fixed filename to its builder.
var Downloads = map[string]Builder{
	KoreaSeaLevelFile: func(snap *coordinator.Snapshot, _ report.Options) (Table, error) {
		result, ok := snap.Result(coordinator.DatasetRegional)
		if !ok {
			return Table{}, fmt.Errorf("dataset %q not loaded", coordinator.DatasetRegional)
		}
		return FromSeries(result.Points()), nil
	},
	UserTimeSeriesFile: func(_ *coordinator.Snapshot, opts report.Options) (Table, error) {
		return FromUserTimeSeries(report.NewUserTimeSeries(series.CurrentYear(), opts.Smooth)), nil
	},
	SurveyFile: func(_ *coordinator.Snapshot, _ report.Options) (Table, error) {
		return FromLabeled(report.Survey), nil
	},
	JobsOpinionFile: func(_ *coordinator.Snapshot, _ report.Options) (Table, error) {
		return FromLabeled(report.JobsOpinion), nil
	},
}

// Filenames returns the download names in sorted order.
func Filenames() []string {
	names := make([]string, 0, len(Downloads))
	for name := range Downloads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
