package reporter

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/pomoblock/pomoblock/internal/database"
	"github.com/pomoblock/pomoblock/internal/models"
)

// Wednesday
var fixedNow = time.Date(2024, 5, 8, 15, 30, 0, 0, time.UTC)

func setupReporter(t *testing.T) (*Reporter, *database.Repository) {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "pomoblock.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Initialize())

	repo := database.NewRepository(db)
	r := New(repo)
	r.now = func() time.Time { return fixedNow }
	return r, repo
}

func TestGetPeriod(t *testing.T) {
	tests := []struct {
		period string
		start  time.Time
		end    time.Time
	}{
		{"day", time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)},
		{"today", time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)},
		{"week", time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)},
		{"month", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			p, err := getPeriod(tt.period, fixedNow)
			require.NoError(t, err)
			assert.Equal(t, tt.start, p.Start)
			assert.Equal(t, tt.end, p.End)
			assert.Equal(t, tt.period, p.Type)
		})
	}

	_, err := getPeriod("year", fixedNow)
	assert.Error(t, err)
}

func TestWeekStartsOnMonday(t *testing.T) {
	sunday := time.Date(2024, 5, 12, 10, 0, 0, 0, time.UTC)
	p, err := getPeriod("week", sunday)
	require.NoError(t, err)
	assert.Equal(t, time.Monday, p.Start.Weekday())
	assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), p.Start)
}

func TestGenerateReport(t *testing.T) {
	r, repo := setupReporter(t)
	at := fixedNow.Add(-2 * time.Hour)

	for _, class := range []string{"Discord", "Discord", "Discord", "Signal"} {
		require.NoError(t, repo.CreateKill(&models.KillEvent{Timestamp: at, Class: class, Title: class, MatchedEntry: class, DisplayServer: "x11"}))
	}
	require.NoError(t, repo.CreateTransition(&models.Transition{Timestamp: at, Active: true, Reason: "lock-created"}))
	require.NoError(t, repo.CreateTransition(&models.Transition{Timestamp: at.Add(20 * time.Minute), Active: false, Reason: "work-elapsed", Elapsed: 1200}))
	require.NoError(t, repo.CreateTransition(&models.Transition{Timestamp: at.Add(25 * time.Minute), Active: true, Reason: "break-elapsed", Elapsed: 300}))
	require.NoError(t, repo.CreateTransition(&models.Transition{Timestamp: at.Add(50 * time.Minute), Active: false, Reason: "work-elapsed", Elapsed: 1500}))
	// Yesterday, outside the day report.
	require.NoError(t, repo.CreateKill(&models.KillEvent{Timestamp: fixedNow.AddDate(0, 0, -1), Class: "Telegram", Title: "Telegram", MatchedEntry: "Telegram", DisplayServer: "x11"}))

	report, err := r.GenerateReport("day")
	require.NoError(t, err)

	assert.Equal(t, 4, report.TotalKills)
	require.Len(t, report.Kills, 2)
	assert.Equal(t, "Discord", report.Kills[0].Class)
	assert.InDelta(t, 75.0, report.Kills[0].Percentage, 0.001)
	assert.InDelta(t, 25.0, report.Kills[1].Percentage, 0.001)
	assert.Equal(t, 2, report.WorkPeriods)
	assert.Equal(t, 2, report.BreakPeriods)
	assert.Equal(t, int64(2700), report.WorkSeconds)
	assert.InDelta(t, 0.75, report.WorkHours, 0.001)
	assert.Equal(t, fixedNow, report.GeneratedAt)

	week, err := r.GenerateReport("week")
	require.NoError(t, err)
	assert.Equal(t, 5, week.TotalKills)
}

func TestGenerateReportInvalidPeriod(t *testing.T) {
	r, _ := setupReporter(t)
	_, err := r.GenerateReport("fortnight")
	assert.Error(t, err)
}

func TestFormatReport(t *testing.T) {
	r, _ := setupReporter(t)
	report := &models.Report{
		Period:       models.ReportPeriod{Start: time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC), End: time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC), Type: "day"},
		Kills:        []models.KillSummary{{Class: "Discord", KillCount: 3, Percentage: 75}, {Class: "Signal", KillCount: 1, Percentage: 25}},
		TotalKills:   4,
		WorkPeriods:  2,
		BreakPeriods: 1,
		WorkSeconds:  2400,
	}

	text := r.FormatReportText(report)
	assert.Contains(t, text, "Focus Report - day")
	assert.Contains(t, text, "Period: 2024-05-08 00:00 to 2024-05-09 00:00")
	assert.Contains(t, text, "Work: 40m over 2 period(s), 1 break(s)")
	assert.Contains(t, text, "Windows killed: 4")
	assert.Contains(t, text, "Discord")
	assert.Contains(t, text, "75.0%")

	js, err := r.FormatReportJSON(report)
	require.NoError(t, err)
	var decoded models.Report
	require.NoError(t, json.Unmarshal([]byte(js), &decoded))
	assert.Equal(t, 4, decoded.TotalKills)

	ym, err := r.FormatReportYAML(report)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(ym), &raw))
	assert.Equal(t, 4, raw["total_kills"])
	assert.Contains(t, ym, "class: Discord")
}

func TestFormatReportTextEmpty(t *testing.T) {
	r, _ := setupReporter(t)
	text := r.FormatReportText(&models.Report{Period: models.ReportPeriod{Type: "week"}})
	assert.Contains(t, text, "No windows killed in this period.")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
