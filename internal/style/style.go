// Package style holds the narration style presets and enrichment levels.
//
// Both registries are fixed tables. Lookups never fail: unknown keys resolve
// to the default entry, and every accessor hands back a copy.
package style

// DefaultStyle is the style used when a key is not recognized.
const DefaultStyle = "engaging"

// Style is a tone preset that shapes prompt phrasing and generation temperature.
type Style struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Temperature float64 `json:"temperature"`
	// PromptStyle is embedded verbatim in prompts as the tone line.
	PromptStyle string `json:"prompt_style"`
}

var styles = [...]Style{
	{
		Key:         "professional",
		Name:        "Professional Lecturer",
		Description: "Formal, academic tone suitable for business and educational presentations",
		Temperature: 0.5,
		PromptStyle: "formal and professional, like a university professor or corporate trainer",
	},
	{
		Key:         "engaging",
		Name:        "Engaging Teacher",
		Description: "Conversational and friendly, like your favorite teacher explaining concepts",
		Temperature: 0.7,
		PromptStyle: "conversational and engaging, like a favorite teacher who makes learning fun",
	},
	{
		Key:         "enthusiastic",
		Name:        "Enthusiastic Presenter",
		Description: "Energetic and passionate, great for motivational or sales presentations",
		Temperature: 0.8,
		PromptStyle: "highly energetic and passionate, using vivid language and excitement",
	},
	{
		Key:         "casual",
		Name:        "Casual Explainer",
		Description: "Relaxed and friendly, using simple language and everyday analogies",
		Temperature: 0.7,
		PromptStyle: "relaxed and friendly, using simple everyday language and relatable examples",
	},
	{
		Key:         "storyteller",
		Name:        "Story Teller",
		Description: "Narrative style that weaves information into a compelling story",
		Temperature: 0.8,
		PromptStyle: "narrative and story-driven, connecting ideas into a flowing story",
	},
}

// LookupStyle returns the style for key, or the engaging style if key is unknown.
// Keys match exactly.
func LookupStyle(key string) Style {
	for _, s := range styles {
		if s.Key == key {
			return s
		}
	}
	return defaultStyle()
}

// IsStyle reports whether key names a known style.
func IsStyle(key string) bool {
	for _, s := range styles {
		if s.Key == key {
			return true
		}
	}
	return false
}

// Styles returns all styles in display order.
func Styles() []Style {
	out := make([]Style, len(styles))
	copy(out, styles[:])
	return out
}

func defaultStyle() Style {
	for _, s := range styles {
		if s.Key == DefaultStyle {
			return s
		}
	}
	panic("style: default style missing from table")
}
