package dashboard

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"sealevel/internal/chart"
	"sealevel/internal/coordinator"
	"sealevel/internal/export"
	"sealevel/internal/fetcher"
	"sealevel/internal/report"
	"sealevel/internal/series"
)

// Report dataset names served by the JSON API next to the resolved series.
const (
	datasetUserTimeSeries = "user_timeseries"
	datasetCountries      = "countries"
)

var footerTemplate = template.Must(template.New("footer").Parse(`
<section style="max-width:900px;margin:24px auto;font-family:sans-serif">
  <h3>데이터 출처</h3>
  <ul>
  {{- range .Sources }}
    <li>{{ .Dataset }}: {{ .Provenance.Source }}{{ if not .Provenance.Fetched }} (공개 소스 불가: {{ .Provenance.Err }}){{ end }}</li>
  {{- end }}
  </ul>
  <h3>CSV 다운로드</h3>
  <ul>
  {{- range .Files }}
    <li><a href="/download/{{ . }}{{ $.Query }}">{{ . }}</a></li>
  {{- end }}
  </ul>
  <p>
    <a href="?smooth={{ not .Options.Smooth }}&temp={{ .Options.ShowTemp }}&sea={{ .Options.ShowSea }}">이동평균 스무딩 {{ if .Options.Smooth }}끄기{{ else }}켜기{{ end }}</a> ·
    <a href="?smooth={{ .Options.Smooth }}&temp={{ not .Options.ShowTemp }}&sea={{ .Options.ShowSea }}">기온 이상 {{ if .Options.ShowTemp }}숨기기{{ else }}표시{{ end }}</a> ·
    <a href="?smooth={{ .Options.Smooth }}&temp={{ .Options.ShowTemp }}&sea={{ not .Options.ShowSea }}">해수면 {{ if .Options.ShowSea }}숨기기{{ else }}표시{{ end }}</a>
  </p>
  <small>snapshot {{ .SnapshotID }} · {{ .LoadedAt }}</small>
</section>
`))

type footerData struct {
	Sources    []fetcher.FetchResult
	Files      []string
	Query      string
	Options    report.Options
	SnapshotID string
	LoadedAt   string
}

func (s *Server) handlePage(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	options := parseOptions(c)

	var page bytes.Buffer
	if err := chart.RenderDashboard(&page, snap, options); err != nil {
		s.logger.Error("render dashboard failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	data := footerData{
		Files:      export.Filenames(),
		Query:      optionsQuery(options),
		Options:    options,
		SnapshotID: snap.ID,
		LoadedAt:   snap.LoadedAt.Format("2006-01-02 15:04:05 MST"),
	}
	for _, name := range snap.Order {
		data.Sources = append(data.Sources, snap.Results[name])
	}
	var footer bytes.Buffer
	if err := footerTemplate.Execute(&footer, data); err != nil {
		s.logger.Error("render footer failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", injectBeforeBodyEnd(page.Bytes(), footer.Bytes()))
}

func (s *Server) handleDownload(c *gin.Context) {
	name := c.Param("file")
	build, ok := export.Downloads[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown download %q", name)})
		return
	}
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}

	table, err := build(snap, parseOptions(c))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	var buf bytes.Buffer
	if err := export.Encode(&buf, table); err != nil {
		s.logger.Error("encode csv failed", "file", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) handleDatasetIndex(c *gin.Context) {
	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	names := append([]string{}, snap.Order...)
	names = append(names,
		datasetUserTimeSeries,
		datasetCountries,
		report.Survey.Name,
		report.AgeDistribution.Name,
		report.JobsOpinion.Name,
	)
	c.JSON(http.StatusOK, gin.H{"snapshot": snap.ID, "datasets": names})
}

func (s *Server) handleDataset(c *gin.Context) {
	name := c.Param("name")
	switch name {
	case datasetUserTimeSeries:
		c.JSON(http.StatusOK, report.NewUserTimeSeries(series.CurrentYear(), parseOptions(c).Smooth))
		return
	case datasetCountries:
		c.JSON(http.StatusOK, report.CountryTrends)
		return
	case report.Survey.Name:
		c.JSON(http.StatusOK, report.Survey)
		return
	case report.AgeDistribution.Name:
		c.JSON(http.StatusOK, report.AgeDistribution)
		return
	case report.JobsOpinion.Name:
		c.JSON(http.StatusOK, report.JobsOpinion)
		return
	}

	snap, ok := s.snapshot(c)
	if !ok {
		return
	}
	result, found := snap.Result(name)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown dataset %q", name)})
		return
	}
	c.JSON(http.StatusOK, result)
}

// snapshot fetches the current snapshot, writing a 503 when none is available.
func (s *Server) snapshot(c *gin.Context) (*coordinator.Snapshot, bool) {
	snap, err := s.snapshots.Get(c.Request.Context())
	if err != nil {
		s.logger.Error("snapshot unavailable", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return nil, false
	}
	return snap, true
}

// parseOptions reads the smooth, temp and sea toggles; each defaults to on.
func parseOptions(c *gin.Context) report.Options {
	return report.Options{
		Smooth:   queryBool(c, "smooth", report.DefaultOptions.Smooth),
		ShowTemp: queryBool(c, "temp", report.DefaultOptions.ShowTemp),
		ShowSea:  queryBool(c, "sea", report.DefaultOptions.ShowSea),
	}
}

func queryBool(c *gin.Context, key string, def bool) bool {
	raw, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes":
		return true
	case "off", "no":
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func optionsQuery(o report.Options) string {
	if o == report.DefaultOptions {
		return ""
	}
	return fmt.Sprintf("?smooth=%t&temp=%t&sea=%t", o.Smooth, o.ShowTemp, o.ShowSea)
}

func injectBeforeBodyEnd(page, fragment []byte) []byte {
	marker := []byte("</body>")
	idx := bytes.LastIndex(page, marker)
	if idx < 0 {
		return append(page, fragment...)
	}
	out := make([]byte, 0, len(page)+len(fragment))
	out = append(out, page[:idx]...)
	out = append(out, fragment...)
	return append(out, page[idx:]...)
}
