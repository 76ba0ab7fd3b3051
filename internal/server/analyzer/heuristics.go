package analyzer

import (
	"strings"

	"github.com/dmitrijs2005/resumeai/internal/common"
)

const (
	// MaxResumeChars bounds the text sent to the model.
	MaxResumeChars = 12000
	// ExcerptChars is how much of the resume is stored with an analysis.
	ExcerptChars = 500

	minResumeChars = 200
	minKeywords    = 3
	minLines       = 5
)

var resumeKeywords = []string{
	"experience", "education", "skills", "work", "employment", "job",
	"degree", "university", "college", "certification", "technical",
	"achievement", "project", "responsibility", "proficiency", "expert",
	"professional", "background", "summary", "objective", "core competencies",
	"languages", "tools", "technologies", "qualifications",
}

// Messages returned for text that does not look like a resume.
const (
	MsgTooShort      = "Text is too short to be a resume. Please upload a valid resume."
	MsgNotResume     = "This doesn't appear to be a resume. Please upload a valid resume with sections like Experience, Education, or Skills."
	MsgUnstructured  = "Resume appears incomplete or improperly formatted. Please upload a valid resume."
	MsgLittleContent = "Resume appears to have very little content. Please upload a valid resume with substantial information."
)

// CheckResumeContent rejects text that is unlikely to be a resume. The
// returned error is a *common.ValidationError on the resume_text field.
func CheckResumeContent(text string) error {
	reject := func(msg string) error {
		return &common.ValidationError{Field: "resume_text", Reason: msg}
	}

	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < minResumeChars {
		return reject(MsgTooShort)
	}

	lower := strings.ToLower(text)
	found := 0
	for _, kw := range resumeKeywords {
		if strings.Contains(lower, kw) {
			found++
		}
	}
	if found < minKeywords {
		return reject(MsgNotResume)
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < minLines {
		return reject(MsgUnstructured)
	}

	nonEmpty := 0
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty++
		}
	}
	if nonEmpty < minLines {
		return reject(MsgLittleContent)
	}
	return nil
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
