package protocol

import _ "embed"

//go:embed pediatric.json
var pediatricJSON []byte

// Default parses the embedded pediatric emergency pack.
func Default() (*Pack, error) {
	return Parse(pediatricJSON)
}
