package script

import (
	"bytes"
	_ "embed"
)

//go:embed demo.yaml
var demoYAML []byte

// Demo returns the bundled example scenario.
func Demo() (*Script, error) {
	return Parse(bytes.NewReader(demoYAML))
}
