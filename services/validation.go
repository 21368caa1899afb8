package services

import (
	"fmt"
	"strings"

	"journalgrader/models"
)

const (
	FieldPrompt      = "prompt"
	FieldStudentName = "student_name"
	FieldMode        = "mode"
)

// ValidationError lists every required field that was empty.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

// ValidateSubmission checks the prompt, the identity and every section the
// mode requires. Whitespace-only text counts as missing.
func ValidateSubmission(sub models.Submission) error {
	var missing []string
	if isBlank(sub.Prompt) {
		missing = append(missing, FieldPrompt)
	}
	if isBlank(sub.StudentName) {
		missing = append(missing, FieldStudentName)
	}
	if !sub.Mode.Valid() {
		missing = append(missing, FieldMode)
	}
	for _, key := range sub.Mode.Sections() {
		if isBlank(sub.Sections[key]) {
			missing = append(missing, string(key))
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
