// Package format abstracts the serialization format used to turn
// application values into payload bytes and back. It is deliberately kept
// outside the framing and session layers so a transport can be mounted
// before the application has decided (or negotiated out-of-band) which
// format its peer speaks.
package format

// Format serializes and deserializes application values to and from
// payload bytes.
//
// Implementations are stateless and live for the full process; the same
// Format value is safe to share across every session on a transport.
type Format interface {
	// Serialize encodes v to a new byte slice.
	Serialize(v any) ([]byte, error)
	// Deserialize decodes data into v, which must be a pointer.
	Deserialize(data []byte, v any) error
}
