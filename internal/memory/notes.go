package memory

// Category identifies one of the marker-fed note logs
type Category string

const (
	CategoryFact    Category = "fact"
	CategoryContext Category = "context"
	CategoryIntent  Category = "intent"
	CategoryInfo    Category = "info"
)

// RecoveryCategories are the categories that map onto a snapshot triple, in
// Memory/Context/Intent order
var RecoveryCategories = []Category{CategoryFact, CategoryContext, CategoryIntent}

// Title returns the heading used for the category's log file
func (c Category) Title() string {
	switch c {
	case CategoryFact:
		return "Facts"
	case CategoryContext:
		return "Context"
	case CategoryIntent:
		return "Intent"
	default:
		return "Notes"
	}
}

// Note is one captured line
type Note struct {
	Stamp string
	Text  string
}

// Recent returns the last n notes, oldest first
func Recent(notes []Note, n int) []Note {
	if n <= 0 || len(notes) == 0 {
		return nil
	}
	if len(notes) <= n {
		return notes
	}
	return notes[len(notes)-n:]
}

// Texts returns the text of each note
func Texts(notes []Note) []string {
	out := make([]string, 0, len(notes))
	for _, n := range notes {
		out = append(out, n.Text)
	}
	return out
}
