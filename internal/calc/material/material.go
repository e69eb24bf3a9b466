package material

import "strings"

// DefaultModulusGPa is used for materials missing from the table (standard PLA).
const DefaultModulusGPa = 2.3

var modulusGPa = map[string]float64{
	"CF-PLA":       3.2,
	"CF–PLA":       3.2,
	"GF-PLA":       5.0,
	"GF–PLA":       5.0,
	"PLA":          2.3,
	"Standard_PLA": 2.3,
	"ABS":          2.1,
	"Standard_ABS": 2.1,
}

// ResolveModulus returns the supplied modulus when it is non-zero, otherwise
// the tabulated default for the material. Unknown materials get DefaultModulusGPa.
func ResolveModulus(material string, suppliedGPa float64) float64 {
	if suppliedGPa != 0 {
		return suppliedGPa
	}
	if e, ok := Lookup(material); ok {
		return e
	}
	return DefaultModulusGPa
}

func Lookup(material string) (float64, bool) {
	e, ok := modulusGPa[strings.ReplaceAll(material, " ", "_")]
	return e, ok
}
