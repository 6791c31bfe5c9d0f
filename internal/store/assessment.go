package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var assessmentColumns = []string{
	"id", "sequence", "timestamp", "uuid",
	"ph", "turbidity", "conductivity", "dissolved_oxygen", "tds", "threshold",
	"outcome", "label", "confidence", "violation", "error_message", "report",
}

// assessmentRepo implements AssessmentRepo on the session database.
type assessmentRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *assessmentRepo) Append(ctx context.Context, data AssessmentData) (int64, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(tableAssessments).
		Columns(assessmentColumns[1:]...).
		Values(
			seqNum, time.Now().UnixMilli(), uuid.NewString(),
			data.PH, data.Turbidity, data.Conductivity, data.DissolvedOxygen, data.TDS, data.Threshold,
			data.Outcome, data.Label, data.Confidence, data.Violation, data.Error, data.Report,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("save assessment: %w", err)
	}
	return seqNum, nil
}

func (r *assessmentRepo) SetReport(ctx context.Context, sequence int64, report string) error {
	query, args := builder().Update(tableAssessments).
		Set("report", report).
		Where(entsql.EQ("sequence", sequence)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("attach report: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("attach report: no assessment with sequence %d", sequence)
	}
	return nil
}

func (r *assessmentRepo) List(ctx context.Context, opts QueryOpts) ([]Assessment, error) {
	query, args := selectEvents(tableAssessments, opts, assessmentColumns...)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()

	var out []Assessment
	for rows.Next() {
		var (
			a  Assessment
			ts int64
		)
		if err := rows.Scan(
			&a.ID, &a.Sequence, &ts, &a.UUID,
			&a.PH, &a.Turbidity, &a.Conductivity, &a.DissolvedOxygen, &a.TDS, &a.Threshold,
			&a.Outcome, &a.Label, &a.Confidence, &a.Violation, &a.Error, &a.Report,
		); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		a.Timestamp = fromMillis(ts)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *assessmentRepo) Count(ctx context.Context) (int, error) {
	query, args := builder().
		Select(entsql.Count("*")).
		From(entsql.Table(tableAssessments)).
		Query()

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count assessments: %w", err)
	}
	return n, nil
}
