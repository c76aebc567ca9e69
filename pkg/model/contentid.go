package model

import (
	"github.com/ipfs/go-cid"

	"github.com/dagfs/dagfs/pkg/errors"
)

// ErrInvalidContentId indicates a string that does not parse as a content identifier
var ErrInvalidContentId = errors.New("invalid content id")

// ContentId is an opaque, self-describing identifier derived from content.
//
// Two identical payloads always map to the same ContentId. The string
// form is a multibase-encoded CID (version 1), so the hash function used
// to derive it travels with the identifier itself.
type ContentId struct {
	c cid.Cid
}

// NewContentId wraps a raw CID
func NewContentId(c cid.Cid) ContentId {
	return ContentId{c: c}
}

// ParseContentId parses the string form of a ContentId
func ParseContentId(s string) (ContentId, error) {
	c, err := cid.Decode(s)
	if err != nil {
		return ContentId{}, ErrInvalidContentId.Wrap(err)
	}
	return ContentId{c: c}, nil
}

// Defined tells whether this id addresses anything at all
func (id ContentId) Defined() bool {
	return id.c.Defined()
}

// Cid yields the underlying CID
func (id ContentId) Cid() cid.Cid {
	return id.c
}

// Equal compares two content ids
func (id ContentId) Equal(other ContentId) bool {
	return id.c.Equals(other.c)
}

func (id ContentId) String() string {
	if !id.c.Defined() {
		return ""
	}
	return id.c.String()
}

// MarshalYAML serializes the id as its canonical string form
func (id ContentId) MarshalYAML() (interface{}, error) {
	return id.String(), nil
}

// UnmarshalYAML deserializes an id from its canonical string form
func (id *ContentId) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	if s == "" {
		*id = ContentId{}
		return nil
	}
	parsed, err := ParseContentId(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
