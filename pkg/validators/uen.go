package validators

import (
	"regexp"
	"strings"
)

// UENEntityCodes lists the two-letter entity types allowed in the
// T-prefixed (post-2009) UEN format.
var UENEntityCodes = []string{
	"CC", "CD", "CH", "CL", "CM", "CP", "CS", "CX", "DP", "FB",
	"FC", "FM", "FN", "GA", "GB", "GS", "HC", "HS", "LL", "LP",
	"MB", "MC", "MD", "MH", "MM", "MQ", "NB", "NR", "PA", "PB",
	"PF", "RF", "RP", "SM", "SS", "TC", "TU", "VH", "XL",
}

var (
	businessUEN = regexp.MustCompile(`^[0-9]{8}[A-Z]$`)
	localUEN    = regexp.MustCompile(`^[0-9]{9}[A-Z]$`)
	entityUEN   = regexp.MustCompile(`^T[0-9]{2}(` + strings.Join(UENEntityCodes, "|") + `)[0-9]{4}[A-Z]$`)
)

// UEN reports whether uen matches one of the unique entity number formats.
func UEN(uen string) bool {
	switch len(uen) {
	case 9:
		return businessUEN.MatchString(uen)
	case 10:
		return localUEN.MatchString(uen) || entityUEN.MatchString(uen)
	default:
		return false
	}
}
