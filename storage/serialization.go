package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/trafficlens/roadrag/core"
)

// MarshalExchange serializes an exchange for storage.
func MarshalExchange(exchange *core.Exchange) ([]byte, error) {
	data, err := json.Marshal(exchange)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalExchange deserializes an exchange from storage.
func UnmarshalExchange(data []byte) (*core.Exchange, error) {
	var exchange core.Exchange
	if err := json.Unmarshal(data, &exchange); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &exchange, nil
}

// MarshalID serializes an ID for use as an index value.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

// UnmarshalID deserializes an ID from an index value.
func UnmarshalID(data []byte) (core.ID, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("%w: id value has %d bytes", ErrSerializationFailed, len(data))
	}
	return core.ID(binary.BigEndian.Uint64(data)), nil
}
