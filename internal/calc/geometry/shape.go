package geometry

import (
	"strings"
	"unicode"
)

type Shape int

const (
	Unknown Shape = iota
	Plate
	PlateWithHole
	Cylinder
	HollowCylinder
	RectangularBar
	HollowRectangularBar
)

var shapeNames = map[Shape]string{
	Unknown:              "Unknown",
	Plate:                "Plate",
	PlateWithHole:        "Plate_With_Hole",
	Cylinder:             "Cylinder",
	HollowCylinder:       "Hollow_Cylinder",
	RectangularBar:       "Rectangular_Bar",
	HollowRectangularBar: "Hollow_Rectangular_Bar",
}

var shapesByName = func() map[string]Shape {
	m := make(map[string]Shape, len(shapeNames))
	for s, name := range shapeNames {
		if s != Unknown {
			m[name] = s
		}
	}
	return m
}()

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return shapeNames[Unknown]
}

func (s Shape) Known() bool {
	return s != Unknown && shapeNames[s] != ""
}

// Normalize trims the identifier, turns spaces into underscores and title-cases
// every letter run, so "plate with hole" becomes "Plate_With_Hole".
func Normalize(raw string) string {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")
	var b strings.Builder
	b.Grow(len(raw))
	prevLetter := false
	for _, r := range raw {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// ParseShape maps a free-form identifier onto the closed set of shapes.
// Anything unrecognised is Unknown.
func ParseShape(raw string) Shape {
	if s, ok := shapesByName[Normalize(raw)]; ok {
		return s
	}
	return Unknown
}

func Shapes() []Shape {
	return []Shape{Plate, PlateWithHole, Cylinder, HollowCylinder, RectangularBar, HollowRectangularBar}
}
