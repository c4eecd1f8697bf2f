package retrieval

import "errors"

// ErrInvalidQuery is returned for inputs exceeding the configured length
// cap, or (in strict mode) containing an unescapable control sequence.
var ErrInvalidQuery = errors.New("invalid query")
