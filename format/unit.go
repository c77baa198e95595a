package format

// Unit is the "no format" placeholder. It exists only so framing-layer
// types can be named and wired up before a real format has been chosen;
// calling either of its methods is a programmer error, not a recoverable
// runtime condition, so both panic.
type Unit struct{}

// Serialize always panics: Unit is a placeholder, never a usable format.
func (Unit) Serialize(any) ([]byte, error) {
	panic("format: Unit cannot serialize; choose a concrete Format before sending")
}

// Deserialize always panics: Unit is a placeholder, never a usable format.
func (Unit) Deserialize([]byte, any) error {
	panic("format: Unit cannot deserialize; choose a concrete Format before reading")
}
