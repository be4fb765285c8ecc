package authmw

import "errors"

// ErrInvalidAuthorization covers a missing/malformed scheme or an
// unrecognized scheme name. It, along with every verification or database
// failure encountered while running the credential→session transition,
// collapses to HTTP 401 at the boundary (§4.5, §7 of the design).
var ErrInvalidAuthorization = errors.New("invalid_authorization")
