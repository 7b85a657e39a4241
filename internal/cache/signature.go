package cache

import (
	"sort"
	"strings"
)

// Separator delimits the base identifier and each rendered parameter inside
// a signature. A parameter value containing the separator itself can in
// theory collide with a differently-split parameter set; accepted limitation.
const Separator = "_"

// Signature builds the cache key for a request against base with the given
// parameters. Each parameter renders as key_value; the rendered parts are
// sorted so identical parameter sets produce identical signatures regardless
// of map iteration order. With no parameters the base is the signature.
func Signature(base string, params map[string]string) string {
	if len(params) == 0 {
		return base
	}

	parts := make([]string, 0, len(params))
	for k, v := range params {
		parts = append(parts, k+Separator+v)
	}
	sort.Strings(parts)

	return base + Separator + strings.Join(parts, Separator)
}
