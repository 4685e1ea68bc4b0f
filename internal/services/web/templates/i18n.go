package templates

import (
	"fmt"

	"golang.org/x/text/message"
)

// Localizer renders catalog messages for the request locale.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T renders key through loc. Without a localizer the key itself is the
// format, so components still render copy in isolation.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc != nil {
		return loc.Sprintf(key, args...)
	}
	format, ok := key.(string)
	switch {
	case !ok:
		return ""
	case len(args) == 0:
		return format
	default:
		return fmt.Sprintf(format, args...)
	}
}
