// Package quality validates generated sessions and summarizes data
// health for a pipeline run.
package quality

import (
	"fmt"

	"github.com/agentstation/utc"

	"github.com/swimto/poolsync/pkg/sessions"
)

// IssueType labels a class of validation problem.
type IssueType string

// Issue classes.
const (
	MissingData       IssueType = "missing_data"
	TimeValidation    IssueType = "time_validation"
	DateValidation    IssueType = "date_validation"
	InvalidType       IssueType = "invalid_type"
	UnmatchedFacility IssueType = "unmatched_facility"
)

// Issue is one validation finding against one session.
type Issue struct {
	Type    IssueType `json:"type"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
	Hash    string    `json:"content_hash,omitempty"`
}

// Report summarizes a full validation pass.
type Report struct {
	Total           int               `json:"total_sessions"`
	Valid           int               `json:"valid_sessions"`
	Invalid         int               `json:"invalid_sessions"`
	Score           float64           `json:"quality_score"`
	Issues          []Issue           `json:"issues,omitempty"`
	IssueCounts     map[IssueType]int `json:"issue_counts,omitempty"`
	Recommendations []string          `json:"recommendations,omitempty"`
	GeneratedAt     utc.Time          `json:"generated_at"`
}

// Validate checks one session and returns whether it is fit to publish
// plus every issue found. An unmatched facility is reported but does
// not invalidate the session; everything else does.
func Validate(s sessions.Session) (bool, []Issue) {
	var issues []Issue
	invalid := false

	flag := func(t IssueType, field, msg string) {
		issues = append(issues, Issue{Type: t, Field: field, Message: msg, Hash: s.ContentHash})
		if t != UnmatchedFacility {
			invalid = true
		}
	}

	if s.CourseName == "" {
		flag(MissingData, "course_name", "session has no course name")
	}
	if s.FacilityName == "" && s.FacilityID == "" {
		flag(MissingData, "facility_name", "session has no facility name or id")
	}
	if s.Start.IsZero() {
		flag(MissingData, "start_time", "session has no start time")
	}
	if s.End.IsZero() {
		flag(MissingData, "end_time", "session has no end time")
	}
	if !s.Start.IsZero() && !s.End.IsZero() && s.Start >= s.End {
		flag(TimeValidation, "start_time", fmt.Sprintf("start %s is not before end %s", s.Start, s.End))
	}
	if s.Date.IsZero() {
		flag(DateValidation, "date", "session has no date")
	} else if s.Date.Year < 2000 || s.Date.Year > 2100 {
		flag(DateValidation, "date", fmt.Sprintf("implausible session date %s", s.Date))
	}
	if !s.SwimType.Valid() {
		flag(InvalidType, "swim_type", fmt.Sprintf("unknown swim type %q", s.SwimType))
	}
	if !s.Matched() {
		flag(UnmatchedFacility, "facility_id", fmt.Sprintf("no facility matched for %q", s.FacilityName))
	}

	return !invalid, issues
}

// NewReport validates every session and produces an aggregate report.
// The quality score is the fraction of valid sessions; an empty input
// scores zero.
func NewReport(list []sessions.Session) Report {
	r := Report{
		Total:       len(list),
		IssueCounts: make(map[IssueType]int),
		GeneratedAt: utc.Now(),
	}

	for _, s := range list {
		valid, issues := Validate(s)
		if valid {
			r.Valid++
		} else {
			r.Invalid++
		}
		for _, issue := range issues {
			r.IssueCounts[issue.Type]++
		}
		r.Issues = append(r.Issues, issues...)
	}

	if r.Total > 0 {
		r.Score = float64(r.Valid) / float64(r.Total)
	}
	r.Recommendations = recommend(r)
	return r
}

func recommend(r Report) []string {
	var recs []string
	if r.Total == 0 {
		return []string{"no sessions generated; check source availability and swim filters"}
	}
	if r.Score < 0.9 {
		recs = append(recs, fmt.Sprintf("quality score %.2f is below 0.90; review parsing logic", r.Score))
	}
	if missing := r.IssueCounts[MissingData]; missing*10 > r.Total {
		recs = append(recs, fmt.Sprintf("%d missing-data issues across %d sessions; check source completeness", missing, r.Total))
	}
	if r.IssueCounts[TimeValidation] > 0 {
		recs = append(recs, "time range errors present; verify schedule time parsing")
	}
	if unmatched := r.IssueCounts[UnmatchedFacility]; unmatched > 0 {
		recs = append(recs, fmt.Sprintf("%d sessions have no matched facility; extend the facility directory or lower the match threshold", unmatched))
	}
	return recs
}
