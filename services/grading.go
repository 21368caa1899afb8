package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"journalgrader/internal/logger"
	"journalgrader/models"
)

const SubmissionTimeLayout = "2006-01-02 15:04:05"

var ErrRateLimited = errors.New("too many submissions, try again later")

// AuditRecorder persists one record per accepted submission.
type AuditRecorder interface {
	RecordSubmission(ctx context.Context, record models.SubmissionRecord) error
}

// SubmissionLimiter decides whether a student may submit again.
type SubmissionLimiter interface {
	Allow(ctx context.Context, student string) (bool, error)
}

type GraderOption func(*Grader)

func WithLimiter(l SubmissionLimiter) GraderOption {
	return func(g *Grader) { g.limiter = l }
}

func WithClock(now func() time.Time) GraderOption {
	return func(g *Grader) { g.now = now }
}

// Grader runs the whole submission flow: validate, throttle, audit, critique.
type Grader struct {
	critic  *Critic
	audit   AuditRecorder
	limiter SubmissionLimiter
	now     func() time.Time
	log     *logger.Logger
}

func NewGrader(critic *Critic, audit AuditRecorder, log *logger.Logger, opts ...GraderOption) *Grader {
	g := &Grader{
		critic: critic,
		audit:  audit,
		now:    time.Now,
		log:    log.With("service", "Grader"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Grade returns a *ValidationError, ErrRateLimited or a *GenerationError on
// failure. Audit and limiter backend failures are logged and do not block
// grading.
func (g *Grader) Grade(ctx context.Context, sub models.Submission) (*models.GradedSubmission, error) {
	if err := ValidateSubmission(sub); err != nil {
		return nil, err
	}

	if g.limiter != nil {
		allowed, err := g.limiter.Allow(ctx, sub.StudentName)
		switch {
		case err != nil:
			g.log.Warn("Rate limiter unavailable, allowing submission", "student_name", sub.StudentName, "error", err)
		case !allowed:
			g.log.Info("Submission rate limited", "student_name", sub.StudentName)
			return nil, ErrRateLimited
		}
	}

	record := models.SubmissionRecord{
		SubmissionID:   uuid.NewString(),
		StudentName:    sub.StudentName,
		SubmissionTime: g.now().Format(SubmissionTimeLayout),
		Submission:     sub.Mode.Label(),
	}
	if err := g.audit.RecordSubmission(ctx, record); err != nil {
		g.log.Warn("Failed to record submission", "submission_id", record.SubmissionID, "student_name", sub.StudentName, "error", err)
	}

	started := g.now()
	critiques, err := g.critic.Critique(ctx, sub.Prompt, sub.Mode, sub.Sections)
	if err != nil {
		return nil, err
	}
	g.log.Info("Submission graded",
		"submission_id", record.SubmissionID,
		"student_name", sub.StudentName,
		"mode", sub.Mode,
		"sections", len(critiques),
		"elapsed", g.now().Sub(started),
	)

	keys := sub.Mode.Sections()
	rows := make([]models.CritiqueRow, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, models.CritiqueRow{
			Key:      key,
			Label:    key.Label(),
			Input:    sub.Sections[key],
			Critique: critiques[key],
		})
	}
	return &models.GradedSubmission{
		Mode:        sub.Mode,
		ModeLabel:   sub.Mode.Label(),
		StudentName: sub.StudentName,
		Rows:        rows,
	}, nil
}
