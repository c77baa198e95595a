package header

import "errors"

// ErrShortHeader is returned by Decode when fewer than Size bytes are
// available. The wire format has no other invalid encodings: any 4 bytes
// beyond that decode to a syntactically valid Header.
var ErrShortHeader = errors.New("header: buffer shorter than 4 bytes")
