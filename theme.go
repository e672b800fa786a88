package rework

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme. A negative index means no color.
type Theme struct {
	Prompt   int // Questions and the input prompt
	Selected int // Highlighted choice in a picker
	Code     int // Code gutter
	Error    int // Failures
	Success  int // Applied changes
	Muted    int // Status bar, placeholders, progress
	Accent   int // Headings, strategy labels
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		Prompt:   4,
		Selected: 3,
		Code:     8,
		Error:    1,
		Success:  2,
		Muted:    8,
		Accent:   5,
	}
}
