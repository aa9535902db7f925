package event

import "encoding/json"

// DecodePayload converts an event payload to T. In-process publishers hand
// over T or *T directly; payloads read back from the dead-letter file or a
// consumer arrive as generic maps and go through a JSON round trip.
func DecodePayload[T any](input interface{}) (T, error) {
	switch v := input.(type) {
	case T:
		return v, nil
	case *T:
		if v != nil {
			return *v, nil
		}
	}

	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	err = json.Unmarshal(data, &result)
	return result, err
}
