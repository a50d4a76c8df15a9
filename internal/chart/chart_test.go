package chart

import (
	"bytes"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sealevel/internal/coordinator"
	"sealevel/internal/fetcher"
	"sealevel/internal/report"
	"sealevel/internal/series"
	"sealevel/internal/synthetic"
)

func testSnapshot() *coordinator.Snapshot {
	return &coordinator.Snapshot{
		ID: "test",
		Results: map[string]fetcher.FetchResult{
			coordinator.DatasetGlobal: {
				Dataset:    coordinator.DatasetGlobal,
				Series:     []series.Point{{Date: time.Date(1993, 1, 15, 0, 0, 0, 0, time.UTC), Value: -38.5}},
				Provenance: fetcher.Provenance{Source: "https://example.test/gmsl.csv", Fetched: true},
			},
			coordinator.DatasetRegional: {
				Dataset:    coordinator.DatasetRegional,
				Series:     synthetic.DefaultRegional.Generate(2025),
				Provenance: fetcher.Provenance{Source: synthetic.DefaultRegional.Label()},
			},
		},
		Order: []string{coordinator.DatasetGlobal, coordinator.DatasetRegional},
	}
}

func TestRenderDashboard(t *testing.T) {
	series.SetClock(clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { series.SetClock(nil) })

	var buf bytes.Buffer
	require.NoError(t, RenderDashboard(&buf, testSnapshot(), report.DefaultOptions))

	html := buf.String()
	assert.Contains(t, html, PageTitle)
	assert.Contains(t, html, "전세계 평균 해수면 변화")
	assert.Contains(t, html, "데이터 출처 시도: https://example.test/gmsl.csv")
	assert.Contains(t, html, "(보고서 기반 대한민국 연안 데이터)")
	assert.Contains(t, html, "1993-01-15")
	assert.Contains(t, html, "몰디브")
	assert.Contains(t, html, "기후위기 불안(그렇다)")
	assert.Contains(t, html, "만 13~18세")
	assert.Contains(t, html, "2025")
}

func TestRenderDashboard_HiddenSeries(t *testing.T) {
	var buf bytes.Buffer
	err := RenderDashboard(&buf, testSnapshot(), report.Options{Smooth: false, ShowTemp: false, ShowSea: false})
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "\"name\":\"해수면 누적 (cm)\",\"type\"")
}

func TestRenderDashboard_MissingDatasetsStillRenderReports(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderDashboard(&buf, &coordinator.Snapshot{}, report.DefaultOptions))
	assert.Contains(t, buf.String(), "청소년의 기후위기 영향 인식")
}

func TestRenderDashboard_NilSnapshot(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, RenderDashboard(&buf, nil, report.DefaultOptions), ErrNoSnapshot)
}

func TestRound(t *testing.T) {
	assert.Equal(t, 1.2346, round(1.23456))
	assert.Equal(t, -0.5, round(-0.5))
}
