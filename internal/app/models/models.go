package models

// Term is the part of the academic year a program runs in
type Term string

// Term constants
const (
	TermSpring Term = "SPRING"
	TermSummer Term = "SUMMER"
	TermFall   Term = "FALL"
	TermWinter Term = "WINTER"
)

// IsValid reports whether t is one of the known terms
func (t Term) IsValid() bool {
	switch t {
	case TermSpring, TermSummer, TermFall, TermWinter:
		return true
	}
	return false
}
