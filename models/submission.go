package models

// SubmittedSections maps each required section to the student's raw text.
type SubmittedSections map[SectionKey]string

// Submission is one request to grade a journal entry.
type Submission struct {
	Prompt      string            `json:"prompt"`
	StudentName string            `json:"student_name"`
	Mode        JournalEntryMode  `json:"mode"`
	Sections    SubmittedSections `json:"sections"`
}

// CritiqueResult holds one critique per submitted section.
type CritiqueResult map[SectionKey]string

// CritiqueRow is one line of the result table.
type CritiqueRow struct {
	Key      SectionKey `json:"key"`
	Label    string     `json:"label"`
	Input    string     `json:"input"`
	Critique string     `json:"critique"`
}

// GradedSubmission is what a successful submission renders.
type GradedSubmission struct {
	Mode        JournalEntryMode `json:"mode"`
	ModeLabel   string           `json:"mode_label"`
	StudentName string           `json:"student_name"`
	Rows        []CritiqueRow    `json:"rows"`
}

// SubmissionRecord is the audit entry written once per accepted submission.
type SubmissionRecord struct {
	SubmissionID   string `json:"submission_id" bson:"submission_id" dynamodbav:"submission_id"`
	StudentName    string `json:"student_name" bson:"student_name" dynamodbav:"student_name"`
	SubmissionTime string `json:"submission_time" bson:"submission_time" dynamodbav:"submission_time"`
	Submission     string `json:"submission" bson:"submission" dynamodbav:"submission"`
}
