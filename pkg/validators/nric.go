// Package validators holds the identifier and format checks shared by the
// request-info entities.
package validators

import "strings"

var nricWeights = [7]int{2, 7, 6, 5, 4, 3, 2}

var (
	nricCitizenTable   = [11]byte{'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'I', 'Z', 'J'}
	nricForeignerTable = [11]byte{'K', 'L', 'M', 'N', 'P', 'Q', 'R', 'T', 'U', 'W', 'X'}
	nricMSeriesTable   = [11]byte{'K', 'L', 'J', 'N', 'P', 'Q', 'R', 'T', 'U', 'W', 'X'}
)

// NRIC reports whether id is a well-formed national registration identity
// number (S/T citizen, F/G foreigner or M series) with a correct check
// character.
func NRIC(id string) bool {
	id = strings.ToUpper(strings.TrimSpace(id))
	if len(id) != 9 {
		return false
	}

	checksum := 0
	for i := 1; i <= 7; i++ {
		c := id[i]
		if c < '0' || c > '9' {
			return false
		}
		checksum += int(c-'0') * nricWeights[i-1]
	}

	var table [11]byte
	switch id[0] {
	case 'S':
		table = nricCitizenTable
	case 'T':
		table = nricCitizenTable
		checksum += 4
	case 'F':
		table = nricForeignerTable
	case 'G':
		table = nricForeignerTable
		checksum += 4
	case 'M':
		table = nricMSeriesTable
		checksum += 3
	default:
		return false
	}

	index := 11 - ((checksum % 11) + 1)
	return id[8] == table[index]
}
