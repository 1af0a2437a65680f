package catalog

import "errors"

// ErrRemote is returned when the catalog responds with a non-success status or
// a body that is not parseable JSON. Callers treat it as terminal for the
// triggering user action; the client never retries.
var ErrRemote = errors.New("catalog request failed")
