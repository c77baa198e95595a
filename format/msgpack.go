package format

import "github.com/vmihailenco/msgpack/v5"

// MessagePack serializes values as MessagePack, encoding structs as
// name-keyed maps (the "named record" encoding) rather than positional
// arrays, so peers compiled against slightly different struct layouts can
// still exchange messages as long as the field names line up.
type MessagePack struct{}

// Serialize encodes v as MessagePack.
func (MessagePack) Serialize(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Deserialize decodes MessagePack data into v.
func (MessagePack) Deserialize(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
