package domain

import "errors"

// ErrAuthentication marks API credential failures. Stages treat it as fatal
// rather than skipping to the next input, since every subsequent request
// would fail the same way.
var ErrAuthentication = errors.New("authentication failed")
