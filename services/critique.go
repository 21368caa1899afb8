package services

import (
	"context"
	"fmt"

	"journalgrader/internal/logger"
	"journalgrader/models"
)

// GenerationError reports the section whose critique could not be produced.
type GenerationError struct {
	Section models.SectionKey
	Err     error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to critique %s: %v", e.Section, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Critic drives one generation call per submitted section.
type Critic struct {
	gen Generator
	log *logger.Logger
}

func NewCritic(gen Generator, log *logger.Logger) *Critic {
	return &Critic{gen: gen, log: log.With("service", "Critic")}
}

// Critique walks the mode's sections in canonical order. Prompts are built
// from submitted text only, never from earlier critiques. The first failure
// aborts the pass and no partial result is returned.
func (c *Critic) Critique(ctx context.Context, taskPrompt string, mode models.JournalEntryMode, sections models.SubmittedSections) (models.CritiqueResult, error) {
	keys := mode.Sections()
	result := make(models.CritiqueResult, len(keys))
	mainClaim := sections[models.MainClaim]

	for _, key := range keys {
		prompt := buildSectionPrompt(key, taskPrompt, mainClaim, sections)
		c.log.Debug("Requesting critique", "section", key, "prompt_chars", len(prompt))

		reply, err := c.gen.Generate(ctx, prompt)
		if err != nil {
			c.log.Error("Critique failed", "section", key, "error", err)
			return nil, &GenerationError{Section: key, Err: err}
		}
		result[key] = reply
	}
	return result, nil
}

func buildSectionPrompt(key models.SectionKey, taskPrompt, mainClaim string, sections models.SubmittedSections) string {
	value := sections[key]
	switch key {
	case models.MainClaim:
		return ClaimPrompt(taskPrompt, value)
	case models.EvidenceOne, models.EvidenceTwo:
		return EvidencePrompt(mainClaim, value)
	case models.ReasoningOne:
		return ReasoningPrompt(mainClaim, sections[models.EvidenceOne], value)
	case models.ReasoningTwo:
		return ReasoningPrompt(mainClaim, sections[models.EvidenceTwo], value)
	case models.ConclusionStatement:
		return SynthesisPrompt(
			taskPrompt,
			mainClaim,
			sections[models.EvidenceOne],
			sections[models.ReasoningOne],
			sections[models.EvidenceTwo],
			sections[models.ReasoningTwo],
			value,
		)
	default:
		panic(fmt.Sprintf("no prompt template for section %q", key))
	}
}
