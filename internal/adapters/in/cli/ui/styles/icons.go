package styles

// Status icons. Plain unicode so no patched font is required.
const (
	IconSuccess = "✔"
	IconError   = "✘"
	IconWarning = "!"
	IconInfo    = "i"
	IconSkipped = "–"
)
