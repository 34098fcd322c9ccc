package scrape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testClock = fixedClock{t: time.Date(2025, time.July, 4, 12, 30, 45, 0, time.UTC)}

const profileURL = "https://example.org/profiles/john-doe"

const profileWithTwoYears = `<html><body>
<div class="player-stats">
  <div class="player-info">
    <span class="player-positions">SS / 2B</span>
    <span class="player-bat-throw">R/R</span>
    <span class="player-height">6'1"</span>
    <span class="player-weight">185</span>
    <span class="player-summer-team">NW Stars</span>
    <span class="player-school">Central High, Portland, OR</span>
  </div>
  <div id="player-bar-year">
    <select class="purei-bar-filter-select" data-graduation_year="2026"></select>
    <div class="player-bar-group bar-year-2024">
      <div class="stat-item">
        <h4>60 YD</h4>
        <div class="stat-value">7.12</div>
        <div class="rank-percentile" data-type="overall"> 87% </div>
        <div class="rank-percentile" data-type="graduation_year">91%</div>
        <div class="rank-percentile" data-type="state">88%</div>
      </div>
      <div class="stat-item">
        <h4>Broad Jump</h4>
        <div class="stat-value">8'11"</div>
        <div class="rank-percentile" data-type="overall">&lt; 25%</div>
      </div>
      <div class="stat-item">
        <h4>Vertical Jump</h4>
        <div class="stat-value">30</div>
      </div>
    </div>
    <div class="player-bar-group bar-year-2023">
      <div class="stat-item">
        <h4>Med Ball</h4>
        <div class="stat-value">54'2"</div>
        <div class="rank-percentile" data-type="state">70%</div>
      </div>
    </div>
  </div>
</div>
</body></html>`

const profileNoGroups = `<html><body>
<div class="player-stats">
  <div class="player-info">
    <span class="player-school">North High</span>
  </div>
  <div id="player-bar-year"></div>
</div>
</body></html>`

func TestExtractTwoYearGroups(t *testing.T) {
	e := NewExtractor(ExtractorConfig{}, testClock)

	records, err := e.Extract(profileWithTwoYears, profileURL)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	require.Equal(t, "John Doe", first["name"])
	require.Equal(t, "2026", first["grad_year"])
	require.Equal(t, "2024", first["test_year"])
	require.Equal(t, "Central High", first["high_school"])
	require.Equal(t, "Portland, OR", first["city_state"])
	require.Equal(t, "SS / 2B", first["positions"])
	require.Equal(t, "R/R", first["bat_throw"])
	require.Equal(t, `6'1"`, first["height"])
	require.Equal(t, "185", first["weight"])
	require.Equal(t, "NW Stars", first["summer_team"])
	require.Equal(t, profileURL, first["profile_url"])
	require.Equal(t, "2025-07-04T12:30:45Z", first["timestamp"])

	require.Equal(t, "7.12", first["60_time"])
	require.Equal(t, "87", first["60_pct"])
	require.Equal(t, "91", first["60_class_pct"])
	require.Equal(t, "88", first["60_state_pct"])
	require.Equal(t, `8'11"`, first["broad_ft"])
	require.Equal(t, "<25", first["broad_pct"], "below-minimum marker preserved by default")
	require.Equal(t, "", first["broad_class_pct"])
	require.Equal(t, "", first["l_time"], "unmeasured drills stay empty")
	require.Equal(t, "", first["med_ft"])

	second := records[1]
	require.Equal(t, "2023", second["test_year"])
	require.Equal(t, `54'2"`, second["med_ft"])
	require.Equal(t, "70", second["med_state_pct"])
	require.Equal(t, "", second["60_time"])
}

func TestExtractEveryColumnPresent(t *testing.T) {
	e := NewExtractor(ExtractorConfig{}, testClock)

	records, err := e.Extract(profileWithTwoYears, profileURL)
	require.NoError(t, err)
	for _, rec := range records {
		for _, col := range Columns() {
			_, ok := rec[col]
			require.True(t, ok, "missing column %q", col)
		}
	}
}

func TestExtractShiftBelowMinimum(t *testing.T) {
	e := NewExtractor(ExtractorConfig{ShiftBelowMinimum: true}, testClock)

	records, err := e.Extract(profileWithTwoYears, profileURL)
	require.NoError(t, err)
	require.Equal(t, "24.99", records[0]["broad_pct"])
}

func TestExtractPlaceholderRecord(t *testing.T) {
	e := NewExtractor(ExtractorConfig{}, testClock)

	records, err := e.Extract(profileNoGroups, profileURL)
	require.NoError(t, err)
	require.Len(t, records, 1, "a player with no drill sessions still yields one row")

	rec := records[0]
	require.Equal(t, "", rec["test_year"])
	require.Equal(t, "John Doe", rec["name"])
	require.Equal(t, "0000", rec["grad_year"], "grad year defaults when the filter is absent")
	require.Equal(t, "North High", rec["high_school"])
	require.Equal(t, "", rec["city_state"])
	for _, d := range Drills {
		require.Equal(t, "", rec[d.Score])
		require.Equal(t, "", rec[d.Overall])
		require.Equal(t, "", rec[d.Class])
		require.Equal(t, "", rec[d.State])
	}
}

func TestExtractNotAPlayerPage(t *testing.T) {
	e := NewExtractor(ExtractorConfig{}, testClock)

	records, err := e.Extract("<html><body><h1>404</h1></body></html>", profileURL)
	require.NoError(t, err)
	require.Nil(t, records)
}

func TestExtractGroupWithoutYearTokenIgnored(t *testing.T) {
	html := `<div class="player-stats"><div id="player-bar-year">
		<div class="player-bar-group misc"><div class="stat-item"><h4>60 YD</h4>
		<div class="stat-value">7.5</div></div></div>
	</div></div>`
	e := NewExtractor(ExtractorConfig{}, testClock)

	records, err := e.Extract(html, profileURL)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "", records[0]["test_year"], "falls back to the placeholder row")
	require.Equal(t, "", records[0]["60_time"])
}
