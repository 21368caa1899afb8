package services

// RubricKind names one of the fixed scoring rubrics.
type RubricKind string

const (
	RubricClaim     RubricKind = "claim"
	RubricEvidence  RubricKind = "evidence"
	RubricReasoning RubricKind = "reasoning"
	RubricSynthesis RubricKind = "synthesis"
)

const claimRubric = `Score of 4: Shows you thought deeply about the question AND text,
Answers all parts of the prompt,
Clear and easy to understand, and
Concise.

Score of 3: Too long, too much detail,
OR
Vague, lacking specificity,
OR
Accurate but poorly phrased.

Score of 2: Only answers part of the prompt,
OR
Is inaccurate due to a misinterpretation.

Score of 1: Does not address any part of the prompt.
Does not give an argument (merely facts or summary).
Does not make sense.`

const evidenceRubric = `Score of 4: You have a direct quote (or a specific paraphrase if the situation is appropriate),
The direct quote fully supports your claim, and
Your direct quote has the context needed to understand it.

Score of 3: No context, or not enough information is given to make the context clear,
OR
Too long, making it difficult to identify which parts are significant.

Score of 2: Paraphrased when a direct quote would be more appropriate,
OR
Tangential to the claim (related to the claim but does not directly prove it).

Score of 1: Evidence is entirely unrelated to the claim,
OR
Evidence is paraphrased poorly, thus too confusing to contribute to the argument.`

const reasoningRubric = `Score of 4: Identifies the significant aspects of the evidence,
provides in-depth insight into the text and deepens readers' understanding, and
Explains how the evidence proves the claim.

Score of 3: Broad analysis of the text, not a specific analysis of the quote,
OR
Accurate, but surface-level,
OR
Accurate but not developed.

Score of 2: Inaccurate,
OR
Too vague to give insight,
OR
Accurate but does not relate to the claim.

Score of 1: Incomprehensible,
OR
Wholly unrelated to evidence and claim,
OR
Evidence is summarized.`

const synthesisRubric = `Score of 4: Connections are made between all points in the paragraph,
arrives at a final conclusion about the text based on synthesis,
and shows in-depth insight about the text.

Score of 3: Connections are present but surface-level,
OR conclusion is present but surface-level.

Score of 2: Synthesis or conclusion is missing, inaccurate, or
unrelated to the paragraph,
OR too vague.

Score of 1: All parts are inaccurate, OR arguments are merely restated or summarized.`

var rubrics = map[RubricKind]string{
	RubricClaim:     claimRubric,
	RubricEvidence:  evidenceRubric,
	RubricReasoning: reasoningRubric,
	RubricSynthesis: synthesisRubric,
}

// Rubric returns the scoring text for kind, or "" for an unknown kind.
func Rubric(kind RubricKind) string {
	return rubrics[kind]
}
