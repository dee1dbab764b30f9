package util

import (
	"regexp"
	"strings"
)

var reEntityID = regexp.MustCompile(`^Q[1-9][0-9]*$`)

// EntityID extracts the bare Wikidata entity key from either a full
// entity URI (http://www.wikidata.org/entity/Q1186) or an already-bare
// key. Returns an empty string when no valid key is present.
func EntityID(ref string) string {
	id := ref
	if idx := strings.LastIndex(ref, "/"); idx != -1 {
		id = ref[idx+1:]
	}
	if !reEntityID.MatchString(id) {
		return ""
	}
	return id
}

// IsEntityID reports whether s is a bare Wikidata entity key such as Q1186.
func IsEntityID(s string) bool {
	return reEntityID.MatchString(s)
}
