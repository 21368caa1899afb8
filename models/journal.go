package models

import (
	"fmt"
	"strings"
)

// SectionKey names one component of a journal entry.
type SectionKey string

const (
	MainClaim           SectionKey = "main_claim"
	EvidenceOne         SectionKey = "evidence_one"
	ReasoningOne        SectionKey = "reasoning_one"
	EvidenceTwo         SectionKey = "evidence_two"
	ReasoningTwo        SectionKey = "reasoning_two"
	ConclusionStatement SectionKey = "conclusion_statement"
)

// SectionOrder is the canonical order. Every section's dependencies appear
// before it.
var SectionOrder = []SectionKey{
	MainClaim,
	EvidenceOne,
	ReasoningOne,
	EvidenceTwo,
	ReasoningTwo,
	ConclusionStatement,
}

// Label is the display title, e.g. "main claim".
func (k SectionKey) Label() string {
	return strings.ReplaceAll(string(k), "_", " ")
}

// JournalEntryMode selects how much of the journal is submitted for critique.
type JournalEntryMode string

const (
	ModeClaimOnly                 JournalEntryMode = "claim_only"
	ModeClaimEvidence             JournalEntryMode = "claim_evidence1"
	ModeClaimEvidenceReasoning    JournalEntryMode = "claim_evidence1_reasoning1"
	ModeClaimTwoEvidenceReasoning JournalEntryMode = "claim_two_evidence_reasoning"
	ModeComplete                  JournalEntryMode = "complete"
)

type modeSpec struct {
	label    string
	sections int
}

var modeSpecs = map[JournalEntryMode]modeSpec{
	ModeClaimOnly:                 {label: "Main Claim Only", sections: 1},
	ModeClaimEvidence:             {label: "Main Claim and One Evidence", sections: 2},
	ModeClaimEvidenceReasoning:    {label: "Main Claim and One Evidence and Reasoning", sections: 3},
	ModeClaimTwoEvidenceReasoning: {label: "Main Claim and Two Evidence and Reasoning", sections: 5},
	ModeComplete:                  {label: "Complete Journal", sections: 6},
}

var modeOrder = []JournalEntryMode{
	ModeClaimOnly,
	ModeClaimEvidence,
	ModeClaimEvidenceReasoning,
	ModeClaimTwoEvidenceReasoning,
	ModeComplete,
}

// Modes lists every mode in selector order.
func Modes() []JournalEntryMode {
	out := make([]JournalEntryMode, len(modeOrder))
	copy(out, modeOrder)
	return out
}

// ParseMode accepts either a mode tag ("complete") or its label
// ("Complete Journal").
func ParseMode(raw string) (JournalEntryMode, error) {
	trimmed := strings.TrimSpace(raw)
	if _, ok := modeSpecs[JournalEntryMode(trimmed)]; ok {
		return JournalEntryMode(trimmed), nil
	}
	for _, mode := range modeOrder {
		if strings.EqualFold(modeSpecs[mode].label, trimmed) {
			return mode, nil
		}
	}
	return "", fmt.Errorf("unknown journal entry mode %q", raw)
}

func (m JournalEntryMode) Valid() bool {
	_, ok := modeSpecs[m]
	return ok
}

func (m JournalEntryMode) Label() string {
	return modeSpecs[m].label
}

// Sections returns the required section keys for the mode, always a prefix of
// SectionOrder. An unknown mode has no sections.
func (m JournalEntryMode) Sections() []SectionKey {
	n := modeSpecs[m].sections
	out := make([]SectionKey, n)
	copy(out, SectionOrder[:n])
	return out
}
