package types

import "fmt"

// Kind identifies what an entry argument refers to.
type Kind string

const (
	KindGroup   Kind = "group"
	KindPackage Kind = "package"
	KindConfig  Kind = "config"
	KindScript  Kind = "script"
)

// Kinds lists the entry kinds stored inside a group record, in record order.
var Kinds = []Kind{KindPackage, KindConfig, KindScript}

// Plural returns the section name used in diagnostics ("packages", ...).
func (k Kind) Plural() string {
	return string(k) + "s"
}

// ParseKind accepts the long and plural names and the single letter
// aliases g, p, c/f and s.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "group", "groups", "g":
		return KindGroup, nil
	case "package", "packages", "p":
		return KindPackage, nil
	case "config", "configs", "c", "f":
		return KindConfig, nil
	case "script", "scripts", "s":
		return KindScript, nil
	}
	return "", fmt.Errorf("unknown entry kind %q", s)
}

// Direction tells the validator whether candidates are being added to or
// removed from a group.
type Direction int

const (
	Add Direction = iota
	Remove
)

func (d Direction) String() string {
	if d == Remove {
		return "remove"
	}
	return "add"
}
