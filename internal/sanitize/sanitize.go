// Package sanitize cleans user supplied rich text before it is stored.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// descriptionPolicy allows the formatting a description editor produces and
// nothing executable.
var descriptionPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}()

// Description strips unsafe markup from a resource description
func Description(s string) string {
	return strings.TrimSpace(descriptionPolicy.Sanitize(s))
}
