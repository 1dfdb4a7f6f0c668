package subscribe

import "gopkg.in/yaml.v3"

// ValidatePayload reports whether body parses as a YAML mapping carrying
// a non-empty proxy-groups sequence, the minimal shape a subscription
// endpoint must serve. It is a structural check only; individual entries
// are not validated.
func ValidatePayload(body string) bool {
	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(body), &doc); err != nil {
		return false
	}
	if doc == nil {
		return false
	}

	groups, ok := doc["proxy-groups"]
	if !ok {
		return false
	}
	seq, ok := groups.([]interface{})
	if !ok {
		return false
	}
	return len(seq) > 0
}
