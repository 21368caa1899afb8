package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"journalgrader/models"
)

type fakeGenerator struct {
	mu      sync.Mutex
	prompts []string
	failOn  int // 1-based call index that fails; 0 never fails
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.failOn > 0 && len(f.prompts) == f.failOn {
		return "", errors.New("upstream unavailable")
	}
	return fmt.Sprintf("Grade: 3 (%d chars)", len(prompt)), nil
}

func (f *fakeGenerator) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

type fakeAudit struct {
	records []models.SubmissionRecord
	err     error
}

func (f *fakeAudit) RecordSubmission(_ context.Context, record models.SubmissionRecord) error {
	f.records = append(f.records, record)
	return f.err
}

type fakeLimiter struct {
	allow bool
	err   error
	seen  []string
}

func (f *fakeLimiter) Allow(_ context.Context, student string) (bool, error) {
	f.seen = append(f.seen, student)
	return f.allow, f.err
}

func completeSections() models.SubmittedSections {
	return models.SubmittedSections{
		models.MainClaim:           "Ambition corrupts morality.",
		models.EvidenceOne:         "\"Vaulting ambition, which o'erleaps itself\"",
		models.ReasoningOne:        "Macbeth admits ambition is his only motive.",
		models.EvidenceTwo:         "\"Will all great Neptune's ocean wash this blood\"",
		models.ReasoningTwo:        "Guilt follows the murder immediately.",
		models.ConclusionStatement: "Unchecked ambition destroys the self.",
	}
}

func containsAll(s string, parts ...string) bool {
	for _, p := range parts {
		if !strings.Contains(s, p) {
			return false
		}
	}
	return true
}
