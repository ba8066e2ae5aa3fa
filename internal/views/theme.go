package views

// StatusTheme is how a verdict is drawn: badge, card border and confidence bar.
type StatusTheme struct {
	Label     string
	Icon      string
	IconClass string
	CardClass string
	BarClass  string
	// Color is the hex equivalent for terminal output.
	Color string
}

var neutralTheme = StatusTheme{
	Label:     "Unknown",
	Icon:      "eye",
	IconClass: "text-slate-400",
	CardClass: "border-slate-700 bg-slate-800/20",
	BarClass:  "bg-slate-500",
	Color:     "#94A3B8",
}

var statusThemes = map[string]StatusTheme{
	"safe": {
		Label:     "Safe",
		Icon:      "check",
		IconClass: "text-emerald-500",
		CardClass: "border-emerald-200/50 bg-emerald-950/20",
		BarClass:  "bg-emerald-500",
		Color:     "#10B981",
	},
	"suspicious": {
		Label:     "Suspicious",
		Icon:      "warning",
		IconClass: "text-amber-500",
		CardClass: "border-amber-200/50 bg-amber-950/20",
		BarClass:  "bg-amber-500",
		Color:     "#F59E0B",
	},
	"dangerous": {
		Label:     "Dangerous",
		Icon:      "shield",
		IconClass: "text-red-500",
		CardClass: "border-red-200/50 bg-red-950/20",
		BarClass:  "bg-red-500",
		Color:     "#EF4444",
	},
}

// ThemeFor maps a status to its theme. Anything unrecognised gets the neutral theme.
func ThemeFor(status string) StatusTheme {
	if theme, ok := statusThemes[status]; ok {
		return theme
	}
	return neutralTheme
}
