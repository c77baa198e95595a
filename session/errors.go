package session

import "errors"

// ErrCookieSpaceExhausted is returned by Allocator.Allocate when every
// cookie in 1..=0x7FFF is already in use.
var ErrCookieSpaceExhausted = errors.New("session: cookie space exhausted")
