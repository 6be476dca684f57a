package style

import (
	"fmt"
	"strings"
)

// DefaultLevel is the enrichment level used when a key is not recognized.
const DefaultLevel = "normal"

// Level describes how much the model may add beyond the literal slide text.
type Level struct {
	Key               string  `json:"key"`
	Name              string  `json:"name"`
	Description       string  `json:"description"`
	AddExamples       bool    `json:"add_examples"`
	AddStatistics     bool    `json:"add_statistics"`
	AddContext        bool    `json:"add_context"`
	AddFunFacts       bool    `json:"add_fun_facts"`
	AddSources        bool    `json:"add_sources"`
	MaxExtraSentences int     `json:"max_extra_sentences"`
	Temperature       float64 `json:"temperature"`
}

// Ordered from least to most enrichment.
var levels = [...]Level{
	{
		Key:         "none",
		Name:        "None (No Enrichment)",
		Description: "Original text only, no additional information",
		Temperature: 0.3,
	},
	{
		Key:               "minimal",
		Name:              "Minimal",
		Description:       "Fluent narration, very little extra info",
		AddContext:        true,
		MaxExtraSentences: 1,
		Temperature:       0.5,
	},
	{
		Key:               "normal",
		Name:              "Normal",
		Description:       "Some explanations and simple examples",
		AddExamples:       true,
		AddContext:        true,
		MaxExtraSentences: 3,
		Temperature:       0.6,
	},
	{
		Key:               "detailed",
		Name:              "Detailed",
		Description:       "Examples, statistics, and extra context",
		AddExamples:       true,
		AddStatistics:     true,
		AddContext:        true,
		AddFunFacts:       true,
		MaxExtraSentences: 5,
		Temperature:       0.7,
	},
	{
		Key:               "academic",
		Name:              "Academic",
		Description:       "In-depth, source-referenced content",
		AddExamples:       true,
		AddStatistics:     true,
		AddContext:        true,
		AddFunFacts:       true,
		AddSources:        true,
		MaxExtraSentences: 8,
		Temperature:       0.7,
	},
}

// LookupLevel returns the level for key, ignoring case and surrounding space.
// Unknown keys resolve to the normal level.
func LookupLevel(key string) Level {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, l := range levels {
		if l.Key == key {
			return l
		}
	}
	return levels[2]
}

// IsLevel reports whether key names a known level (case-insensitive).
func IsLevel(key string) bool {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, l := range levels {
		if l.Key == key {
			return true
		}
	}
	return false
}

// Levels returns all levels ordered none, minimal, normal, detailed, academic.
func Levels() []Level {
	out := make([]Level, len(levels))
	copy(out, levels[:])
	return out
}

// Guidance renders the level as prompt instructions.
func (l Level) Guidance() string {
	var b strings.Builder
	b.WriteString("ENRICHMENT:\n")

	if l.MaxExtraSentences == 0 {
		b.WriteString("- Do NOT add any new information, examples, statistics, or fun facts.\n")
		b.WriteString("- Just make the slide text flow naturally as speech.")
		return b.String()
	}

	fmt.Fprintf(&b, "- Add at most %d sentence", l.MaxExtraSentences)
	if l.MaxExtraSentences > 1 {
		b.WriteString("s")
	}
	b.WriteString(" beyond the slide content.\n")

	if l.AddContext {
		b.WriteString("- Add brief context about why this matters.\n")
	}
	if l.AddExamples {
		b.WriteString("- You may include a simple real-world example.\n")
	} else {
		b.WriteString("- Do NOT add examples.\n")
	}
	if l.AddStatistics {
		b.WriteString("- Include a relevant statistic or data point when one applies.\n")
	} else {
		b.WriteString("- Do NOT add statistics.\n")
	}
	if l.AddFunFacts {
		b.WriteString("- A short \"Did you know?\" fact is welcome.\n")
	}
	if l.AddSources {
		b.WriteString("- Mention well-known researchers, studies, or foundational work where relevant.\n")
	}
	b.WriteString("- Stay relevant to the topic.")
	return b.String()
}
