package run

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hpungsan/lectern/internal/prompt"
)

// Finding kinds.
const (
	FindingFallback        = "fallback"
	FindingSkipped         = "skipped"
	FindingRepeatGreeting  = "repeated_greeting"
	FindingMissingSignOff  = "missing_sign_off"
	FindingLateIntroducing = "self_introduction"
)

// Finding is one issue in a run's script.
type Finding struct {
	SlideNumber int    `json:"slide_number"`
	Kind        string `json:"kind"`
	Message     string `json:"message"`
}

// LintResult lists the findings for a run. Clean is true when there are none.
type LintResult struct {
	Clean    bool      `json:"clean"`
	Findings []Finding `json:"findings"`
}

var (
	greetingPattern = regexp.MustCompile(`(?i)\b(good (morning|afternoon|evening)|hello everyone|welcome (everyone|back))\b`)
	introPattern    = regexp.MustCompile(`(?i)\b(my name is|i am your presenter|i'm your presenter)\b`)
)

// Lint checks that a run reads as one continuous talk: greetings only on
// the first slide, the sign-off on the last, and no degraded slides.
func Lint(r *Run) LintResult {
	findings := []Finding{}
	last := len(r.Slides)

	for _, s := range r.Slides {
		switch s.Outcome {
		case "fallback":
			findings = append(findings, Finding{s.SlideNumber, FindingFallback,
				fmt.Sprintf("slide %d uses its source text (generation failed after %d attempt(s))", s.SlideNumber, s.Attempts)})
			continue
		case "skipped":
			findings = append(findings, Finding{s.SlideNumber, FindingSkipped,
				fmt.Sprintf("slide %d was not attempted", s.SlideNumber)})
			continue
		case "success":
		default:
			continue
		}

		if s.Position > 1 {
			if greetingPattern.MatchString(s.Narration) {
				findings = append(findings, Finding{s.SlideNumber, FindingRepeatGreeting,
					fmt.Sprintf("slide %d greets the audience again", s.SlideNumber)})
			}
			if introPattern.MatchString(s.Narration) {
				findings = append(findings, Finding{s.SlideNumber, FindingLateIntroducing,
					fmt.Sprintf("slide %d re-introduces the presenter", s.SlideNumber)})
			}
		}
		if s.Position == last && last > 1 && !strings.Contains(s.Narration, prompt.SignOff) {
			findings = append(findings, Finding{s.SlideNumber, FindingMissingSignOff,
				fmt.Sprintf("final slide %d does not end with the sign-off", s.SlideNumber)})
		}
	}

	return LintResult{Clean: len(findings) == 0, Findings: findings}
}
