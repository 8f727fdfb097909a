package reporter

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pomoblock/pomoblock/internal/database"
	"github.com/pomoblock/pomoblock/internal/models"
	"github.com/pomoblock/pomoblock/pkg/utils"
)

// Reporter builds kill and session reports from the journal
type Reporter struct {
	repo *database.Repository
	now  func() time.Time
}

// New creates a new reporter
func New(repo *database.Repository) *Reporter {
	return &Reporter{
		repo: repo,
		now:  time.Now,
	}
}

// GenerateReport generates a report for the specified period
func (r *Reporter) GenerateReport(periodType string) (*models.Report, error) {
	now := r.now()
	period, err := getPeriod(periodType, now)
	if err != nil {
		return nil, err
	}

	kills, err := r.repo.GetKillSummary(period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to get kill summary: %w", err)
	}

	var total int
	for _, k := range kills {
		total += k.KillCount
	}
	if total > 0 {
		for i := range kills {
			kills[i].Percentage = float64(kills[i].KillCount) / float64(total) * 100.0
		}
	}

	transitions, err := r.repo.GetTransitions(period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to get transitions: %w", err)
	}

	report := &models.Report{
		Period:      *period,
		Kills:       kills,
		TotalKills:  total,
		GeneratedAt: now,
	}
	for _, tr := range transitions {
		if tr.Active {
			report.WorkPeriods++
			continue
		}
		// A transition to inactive closes a work period of tr.Elapsed seconds.
		report.BreakPeriods++
		report.WorkSeconds += tr.Elapsed
	}
	report.WorkHours = float64(report.WorkSeconds) / 3600.0

	return report, nil
}

// getPeriod calculates the time range for the report
func getPeriod(periodType string, now time.Time) (*models.ReportPeriod, error) {
	var start, end time.Time

	switch periodType {
	case "day", "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 0, 1)

	case "week":
		// Weeks start on Monday
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 7)

	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, 0)

	default:
		return nil, fmt.Errorf("invalid period type: %s (valid: day, week, month)", periodType)
	}

	return &models.ReportPeriod{
		Start: start,
		End:   end,
		Type:  periodType,
	}, nil
}

// FormatReportText formats the report as human-readable text
func (r *Reporter) FormatReportText(report *models.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Focus Report - %s\n", report.Period.Type)
	fmt.Fprintf(&b, "Period: %s to %s\n",
		report.Period.Start.Format("2006-01-02 15:04"),
		report.Period.End.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Work: %s over %d period(s), %d break(s)\n",
		utils.FormatRoundedUnit(time.Duration(report.WorkSeconds)*time.Second),
		report.WorkPeriods, report.BreakPeriods)
	fmt.Fprintf(&b, "Windows killed: %d\n\n", report.TotalKills)

	if len(report.Kills) == 0 {
		b.WriteString("No windows killed in this period.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-40s %10s %10s\n", "Class", "Kills", "Percent")
	b.WriteString(strings.Repeat("-", 62) + "\n")
	for _, k := range report.Kills {
		fmt.Fprintf(&b, "%-40s %10d %9.1f%%\n", truncate(k.Class, 40), k.KillCount, k.Percentage)
	}

	return b.String()
}

// FormatReportJSON formats the report as JSON
func (r *Reporter) FormatReportJSON(report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}

// FormatReportYAML formats the report as YAML
func (r *Reporter) FormatReportYAML(report *models.Report) (string, error) {
	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return string(data), nil
}

// truncate truncates a string to the specified length
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
