// Package choice holds small generic helpers.
package choice

// Ternary operator
func Ternary[T any](condition bool, isTrue, isFalse T) T {
	if condition == true {
		return isTrue
	}

	return isFalse
}
