package ucd

import "golang.org/x/text/unicode/norm"

// CombiningClass returns cp's canonical combining class (UAX #15 table
// 14), read off golang.org/x/text/unicode/norm's decomposition
// properties rather than maintaining a private copy of the CCC table.
func CombiningClass(cp rune) uint8 {
	return norm.NFD.PropertiesString(string(cp)).CCC()
}
