package message

import (
	"fmt"

	"github.com/goccy/go-json"
)

// ParseDynamicJSON decodes one JSON object. Anything other than an object,
// including a bare null, is rejected.
func ParseDynamicJSON(data []byte) (DynamicMessage, error) {
	var msg DynamicMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrJSONUnmarshalFailed, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrJSONUnmarshalFailed)
	}
	return msg, nil
}
