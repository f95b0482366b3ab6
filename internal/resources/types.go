package resources

// Type is one of the resource categories the catalog service recognises.
type Type string

const (
	Syllabus   Type = "Syllabus"
	TextBook   Type = "Text Book"
	Notes      Type = "Notes"
	Manual     Type = "Manual"
	LabReport  Type = "Lab Report"
	Assignment Type = "Assignment"
	Question   Type = "Question"
)

// Types is the closed set of categories in render order.
var Types = []Type{
	Syllabus,
	TextBook,
	Notes,
	Manual,
	LabReport,
	Assignment,
	Question,
}

const fallbackLabel = "View PDF"

// Record is a single downloadable item as returned by the service.
type Record struct {
	Type         string `json:"type"`
	Link         string `json:"link"`
	OriginalName string `json:"originalName,omitempty"`
}

// Label is the display text for a record.
func (r Record) Label() string {
	if r.OriginalName != "" {
		return r.OriginalName
	}
	return fallbackLabel
}

// Known reports whether t is one of the recognised categories.
func Known(t string) bool {
	for _, known := range Types {
		if string(known) == t {
			return true
		}
	}
	return false
}

// Classify maps a declared type onto its bucket. Unrecognised values land in Notes.
func Classify(declared string) Type {
	if Known(declared) {
		return Type(declared)
	}
	return Notes
}

var icons = map[Type]string{
	Notes:      "▤",
	Syllabus:   "☰",
	Question:   "?",
	Manual:     "⚙",
	LabReport:  "⚗",
	Assignment: "✎",
	TextBook:   "▥",
}

// Icon returns the glyph for a declared record type. It looks at the raw value,
// so a record filed under Notes by fallback keeps the generic link glyph.
func Icon(declared string) string {
	if icon, ok := icons[Type(declared)]; ok {
		return icon
	}
	return "↗"
}
