// Package ids generates record identifiers of the form "<prefix>_<uuid v4>".
//
// A v4 UUID carries 122 random bits, so even at a billion records the chance
// of any collision stays below one in a billion.
package ids

import (
	"strings"

	"github.com/google/uuid"
)

const (
	PrefixExpense = "exp"
	PrefixProject = "prj"
	PrefixUser    = "usr"
)

func New(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// HasPrefix reports whether id was generated with prefix.
func HasPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+"_")
}
