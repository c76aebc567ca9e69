package model

import (
	"gopkg.in/yaml.v2"
)

// DirectoryPayload is the serialized description of a directory node:
// the ordered list of links the node carries. Its yaml form is the exact
// byte payload submitted to the content store, so marshaling must stay
// deterministic for a given link sequence.
type DirectoryPayload struct {
	Links []FileSystemLink `json:"links" yaml:"links"`
	_     struct{}
}

// MarshalDirectoryPayload produces the canonical byte form of a directory node
func MarshalDirectoryPayload(p DirectoryPayload) ([]byte, error) {
	return yaml.Marshal(p)
}

// UnmarshalDirectoryPayload decodes the byte form of a directory node
func UnmarshalDirectoryPayload(b []byte) (DirectoryPayload, error) {
	var p DirectoryPayload
	if err := yaml.Unmarshal(b, &p); err != nil {
		return DirectoryPayload{}, err
	}
	return p, nil
}
