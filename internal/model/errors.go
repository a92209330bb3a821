package model

import (
	"fmt"
	"strings"
)

// LookupError reports an evaluation request against a key the model does
// not define. Valid enumerates the accepted candidates so the caller can
// see what the model actually carries.
type LookupError struct {
	What  string
	Key   string
	Valid []string
}

// Error implements the error interface.
func (e *LookupError) Error() string {
	return fmt.Sprintf("unknown %s %q, expected one of [%s]", e.What, e.Key, strings.Join(e.Valid, ", "))
}
