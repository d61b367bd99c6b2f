// Package dashboard shapes reporting data for display.
package dashboard

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/justsurfingit/talentra/internal/dtos"
)

// TrendDays is the length of the trend series.
const TrendDays = 30

const dayLayout = "2006-01-02"

// FillTrend returns TrendDays contiguous UTC days ending on today's date,
// taking counts from points and zero elsewhere. Points outside the range
// are dropped.
func FillTrend(points []dtos.TrendPoint, today time.Time) []dtos.TrendPoint {
	counts := make(map[string]int64, len(points))
	for _, p := range points {
		counts[p.Day] += p.Count
	}

	end := today.UTC()
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	series := make([]dtos.TrendPoint, 0, TrendDays)
	for i := TrendDays - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i).Format(dayLayout)
		series = append(series, dtos.TrendPoint{Day: day, Count: counts[day]})
	}
	return series
}

// FormatDay renders "2025-06-15" as "Jun 15". Unparseable input is returned unchanged.
func FormatDay(day string) string {
	t, err := time.Parse(dayLayout, day)
	if err != nil {
		return day
	}
	return t.Format("Jan 2")
}

// Report is everything the dashboard shows.
type Report struct {
	GeneratedAt time.Time                  `json:"generated_at"`
	Stats       dtos.Stats                 `json:"stats"`
	Trend       []dtos.TrendPoint          `json:"trend"`
	Stale       []dtos.ApplicationActivity `json:"stale"`
	Recent      []dtos.ApplicationActivity `json:"recent"`
	Pipeline    []dtos.PipelineSummaryRow  `json:"pipeline"`
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText renders r as aligned terminal tables.
func WriteText(w io.Writer, r *Report) error {
	s := r.Stats
	_, _ = fmt.Fprintf(w, "Dashboard (%s)\n\n", r.GeneratedAt.UTC().Format(time.RFC3339))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "  METRIC\tTOTAL\tTHIS WEEK")
	_, _ = fmt.Fprintf(tw, "  Open jobs\t%d\t%d\n", s.OpenJobs, s.OpenJobsThisWeek)
	_, _ = fmt.Fprintf(tw, "  Candidates\t%d\t%d\n", s.TotalCandidates, s.CandidatesThisWeek)
	_, _ = fmt.Fprintf(tw, "  Applications\t%d\t%d\n", s.TotalApplications, s.ApplicationsThisWeek)
	_, _ = fmt.Fprintf(tw, "  In interview\t%d\t%d\n", s.InInterview, s.InInterviewThisWeek)
	if err := tw.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w, "\nPipeline:")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "  JOB\tDEPARTMENT\tAPPLIED\tSCREENING\tINTERVIEW\tOFFER")
	for _, p := range r.Pipeline {
		_, _ = fmt.Fprintf(tw, "  %s\t%s\t%d\t%d\t%d\t%d\n",
			p.Title, p.Department, p.AppliedCount, p.ScreeningCount, p.InterviewCount, p.OfferCount)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := writeActivity(w, "Needs attention:", r.Stale); err != nil {
		return err
	}
	if err := writeActivity(w, "Recent activity:", r.Recent); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(w, "\nApplications, last 30 days:")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, p := range FillTrend(r.Trend, r.GeneratedAt) {
		if p.Count == 0 {
			continue
		}
		_, _ = fmt.Fprintf(tw, "  %s\t%d\n", FormatDay(p.Day), p.Count)
	}
	return tw.Flush()
}

func writeActivity(w io.Writer, title string, rows []dtos.ApplicationActivity) error {
	_, _ = fmt.Fprintln(w, "\n"+title)
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "  (none)")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "  CANDIDATE\tJOB\tSTAGE\tUPDATED")
	for _, a := range rows {
		_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
			a.CandidateName, a.JobTitle, a.Status.Label(), a.UpdatedAt.UTC().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
