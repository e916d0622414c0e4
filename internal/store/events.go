package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type eventRepo struct {
	db *sql.DB
}

var _ EventRepo = (*eventRepo)(nil)

func (r *eventRepo) AppendAttemptEvent(ctx context.Context, data AttemptEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO attempt_events
			(ts, attempt_id, exam_id, exam_title, action, score, total_points,
			 answered, questions, auto_submitted, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().Unix(), data.AttemptID, data.ExamID, data.ExamTitle, data.Action,
		data.Score, data.TotalPoints, data.Answered, data.Questions,
		boolToInt(data.AutoSubmitted), data.DurationSecs)
	if err != nil {
		return fmt.Errorf("save attempt event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAttempts(ctx context.Context, opts QueryOpts) ([]AttemptRecord, error) {
	var conds []string
	var args []any

	if opts.ExamID != "" {
		conds = append(conds, "exam_id = ?")
		args = append(args, opts.ExamID)
	}
	if !opts.From.IsZero() {
		conds = append(conds, "ts >= ?")
		args = append(args, opts.From.Unix())
	}
	if !opts.To.IsZero() {
		conds = append(conds, "ts <= ?")
		args = append(args, opts.To.Unix())
	}

	q := `SELECT id, ts, attempt_id, exam_id, exam_title, action, score,
			total_points, answered, questions, auto_submitted, duration_secs
		FROM attempt_events`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY id DESC"
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		var rec AttemptRecord
		var ts int64
		var auto int
		if err := rows.Scan(&rec.ID, &ts, &rec.AttemptID, &rec.ExamID, &rec.ExamTitle,
			&rec.Action, &rec.Score, &rec.TotalPoints, &rec.Answered, &rec.Questions,
			&auto, &rec.DurationSecs); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		rec.Timestamp = time.Unix(ts, 0)
		rec.AutoSubmitted = auto != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *eventRepo) AppendAPIEvent(ctx context.Context, data APIEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_events (ts, op, duration_ms, success, error) VALUES (?, ?, ?, ?, ?)`,
		time.Now().Unix(), data.Op, data.DurationMs, boolToInt(data.Success), data.Error)
	if err != nil {
		return fmt.Errorf("save api event: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
