package analyzer

import (
	_ "embed"
	"strings"
)

//go:embed recruiter_prompt.txt
var recruiterPrompt string

// DefaultRoleTarget is used when the caller names no role.
const DefaultRoleTarget = "general job applications"

// BuildPrompt fills the recruiter template. The resume goes in last so any
// placeholder-looking text inside it is left alone.
func BuildPrompt(resumeText, roleTarget string) string {
	roleTarget = strings.TrimSpace(roleTarget)
	if roleTarget == "" {
		roleTarget = DefaultRoleTarget
	}
	p := strings.ReplaceAll(recruiterPrompt, "{{.RoleTarget}}", roleTarget)
	return strings.Replace(p, "{{.ResumeText}}", resumeText, 1)
}
