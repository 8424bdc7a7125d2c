package dataset

import "strings"

// Resolve finds the header matching name case-insensitively and returns it
// with the file's own casing. When headers hold case variants of the same
// name the first one in header order wins.
func Resolve(headers []string, name string) (string, bool) {
	i := Index(headers, name)
	if i < 0 {
		return "", false
	}
	return headers[i], true
}

// Index is Resolve returning the column position, or -1.
func Index(headers []string, name string) int {
	for i, h := range headers {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}
