// Package model defines the core domain models used throughout the application.
package model

// Persona is one of the four fixed customer segments derived from
// engagement and financial-exposure scores.
type Persona string

// Persona labels. Rule order in the classifier is significant; these
// four partition every classified dataset.
const (
	PersonaLoyalist Persona = "Highly Engaged Loyalist"
	PersonaStressed Persona = "Financially Stressed Repeater"
	PersonaExplorer Persona = "Curious Safe Explorer"
	PersonaModerate Persona = "Moderate Potential"
)

// AllPersonas lists every label in display order.
func AllPersonas() []Persona {
	return []Persona{
		PersonaLoyalist,
		PersonaStressed,
		PersonaExplorer,
		PersonaModerate,
	}
}

// personaColors is the fixed persona→color table used by every chart
// and styled output surface.
var personaColors = map[Persona]string{
	PersonaLoyalist: "#1f77b4",
	PersonaStressed: "#d62728",
	PersonaExplorer: "#ff7f0e",
	PersonaModerate: "#2ca02c",
}

// Color returns the hex color assigned to the persona. Unknown labels
// get a neutral gray so rendering never fails.
func (p Persona) Color() string {
	if c, ok := personaColors[p]; ok {
		return c
	}
	return "#808080"
}

// Valid reports whether p is one of the four fixed labels.
func (p Persona) Valid() bool {
	_, ok := personaColors[p]
	return ok
}

// ParsePersona resolves a label string to a Persona, matching the
// exact display name.
func ParsePersona(s string) (Persona, bool) {
	p := Persona(s)
	return p, p.Valid()
}
