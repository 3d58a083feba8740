package sqlite

import (
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/starforge/internal/supervisor"
)

// LoadModel represents the database row for the loads table.
// Time values are stored as Unix milliseconds.
type LoadModel struct {
	ID            int64
	RunID         string
	Cause         string
	Outcome       string
	FatalCount    int
	AdvisoryCount int
	DurationMS    int64
	Error         *string // nullable
	FinishedAt    int64   // Unix milliseconds
}

// toLoadModel converts a supervisor report to a database row.
func toLoadModel(report supervisor.LoadReport) *LoadModel {
	m := &LoadModel{
		RunID:         report.RunID.String(),
		Cause:         string(report.Trigger),
		Outcome:       string(report.Outcome),
		FatalCount:    report.Fatals,
		AdvisoryCount: report.Advisories,
		DurationMS:    report.Duration.Milliseconds(),
		FinishedAt:    report.FinishedAt.UnixMilli(),
	}
	if report.Err != "" {
		errText := report.Err
		m.Error = &errText
	}
	return m
}

// toReport converts a database row back to a supervisor report.
func (m *LoadModel) toReport() supervisor.LoadReport {
	report := supervisor.LoadReport{
		Trigger:    supervisor.Trigger(m.Cause),
		Outcome:    supervisor.Outcome(m.Outcome),
		Fatals:     m.FatalCount,
		Advisories: m.AdvisoryCount,
		Duration:   time.Duration(m.DurationMS) * time.Millisecond,
		FinishedAt: time.UnixMilli(m.FinishedAt),
	}
	if id, err := uuid.Parse(m.RunID); err == nil {
		report.RunID = id
	}
	if m.Error != nil {
		report.Err = *m.Error
	}
	return report
}
