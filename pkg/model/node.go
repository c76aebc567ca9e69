package model

import (
	"sort"
)

// FileSystemLink is a named edge from a directory node to one of its
// immediate children. Immutable once created.
type FileSystemLink struct {
	Name        string    `json:"name" yaml:"name"`
	Id          ContentId `json:"id" yaml:"id"`
	Size        uint64    `json:"size" yaml:"size"`
	IsDirectory bool      `json:"isDirectory" yaml:"isDirectory"`
	_           struct{}
}

// FileSystemNode is a materialized DAG node. For a file, Links is empty
// and Size is the raw byte length accepted by the store. For a directory,
// Links enumerates the immediate children only and Size is whatever the
// store reported for the assembled node, which includes node overhead.
type FileSystemNode struct {
	Id          ContentId        `json:"id" yaml:"id"`
	Name        string           `json:"name" yaml:"name"`
	Size        uint64           `json:"size" yaml:"size"`
	IsDirectory bool             `json:"isDirectory" yaml:"isDirectory"`
	Links       []FileSystemLink `json:"links,omitempty" yaml:"links,omitempty"`
	_           struct{}
}

// LinkTo derives the link a parent directory holds for this node
func LinkTo(node FileSystemNode) FileSystemLink {
	return FileSystemLink{
		Name:        node.Name,
		Id:          node.Id,
		Size:        node.Size,
		IsDirectory: node.IsDirectory,
	}
}

// SortLinks orders links by name, in place. Directory nodes are
// materialized from sorted links so an unchanged tree always hashes to
// the same id.
func SortLinks(links []FileSystemLink) {
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Name < links[j].Name
	})
}
