package pipeline

import "errors"

// ErrPersist marks a submission that was not recorded. It is the only
// failure Process returns.
var ErrPersist = errors.New("submission not recorded")
