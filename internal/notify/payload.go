package notify

import "strings"

// Payload is a platform-neutral message. Text carries plain messages;
// Title, Body and Fields carry structured ones (the fine alert embed).
// Either side may be empty.
type Payload struct {
	Text   string
	Title  string
	Body   string
	Fields []Field
}

// Field is one named value of a structured payload.
type Field struct {
	Name  string
	Value string
}

// Flatten renders the payload as plain text for platforms that cannot
// display structure: text, title, body, then each field as "name\nvalue",
// concatenated with blank-line separators. Empty parts are skipped.
func (p Payload) Flatten() string {
	var parts []string
	if p.Text != "" {
		parts = append(parts, p.Text)
	}
	if p.Title != "" {
		parts = append(parts, p.Title)
	}
	if p.Body != "" {
		parts = append(parts, p.Body)
	}
	for _, f := range p.Fields {
		parts = append(parts, f.Name+"\n"+f.Value)
	}
	return strings.Join(parts, "\n\n")
}
