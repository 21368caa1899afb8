package services

import "fmt"

// Arguments are substituted verbatim; student text is never escaped or
// trimmed before it reaches the model.

func ClaimPrompt(taskPrompt, mainClaim string) string {
	return fmt.Sprintf(
		`As if you are an advanced literature high school teacher, you provide the student this prompt: %s.
The student, in return, provides this thesis claim in response: %s.
Please provide a grade and concise critique in bulleted notes based on this rubric:
%s`,
		taskPrompt, mainClaim, claimRubric,
	)
}

func EvidencePrompt(mainClaim, evidence string) string {
	return fmt.Sprintf(
		`You are an advanced literature high school teacher. The student has made this claim: %s.
To support this claim the student has provided this evidence: %s.
Please provide a grade and concise critique in bulleted notes based on this rubric:
%s`,
		mainClaim, evidence, evidenceRubric,
	)
}

func ReasoningPrompt(mainClaim, evidence, reasoning string) string {
	return fmt.Sprintf(
		`You are an advanced literature high school teacher. The student has provided this evidence: %s.
The student's main thesis: %s. To prove their thesis the student has provided this reasoning: %s.
Please provide a grade and concise critique in bulleted notes based on this rubric:
%s`,
		evidence, mainClaim, reasoning, reasoningRubric,
	)
}

func SynthesisPrompt(taskPrompt, mainClaim, evidenceOne, reasoningOne, evidenceTwo, reasoningTwo, conclusion string) string {
	return fmt.Sprintf(
		`As if you are an advanced literature high school teacher, you provide the student this prompt: %s.
The student, in return, provides this thesis claim in response: %s and this evidence: %s and reasoning: %s.
Along with this evidence: %s and reasoning: %s.
Please provide a grade and concise critique of the conclusion statement: %s
based on this rubric:
%s`,
		taskPrompt, mainClaim, evidenceOne, reasoningOne, evidenceTwo, reasoningTwo, conclusion, synthesisRubric,
	)
}
