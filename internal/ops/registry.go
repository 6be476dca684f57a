package ops

import "github.com/hpungsan/lectern/internal/style"

// StylesOutput lists the narration styles.
type StylesOutput struct {
	Default string        `json:"default"`
	Styles  []style.Style `json:"styles"`
}

// Styles returns the style registry in display order.
func Styles() *StylesOutput {
	return &StylesOutput{Default: style.DefaultStyle, Styles: style.Styles()}
}

// LevelsOutput lists the enrichment levels.
type LevelsOutput struct {
	Default string        `json:"default"`
	Levels  []style.Level `json:"levels"`
}

// Levels returns the level registry, least enrichment first.
func Levels() *LevelsOutput {
	return &LevelsOutput{Default: style.DefaultLevel, Levels: style.Levels()}
}
