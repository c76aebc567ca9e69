// Package storage provides an interface to handle backend storage objects.
//
// Stores are simple key/value blob containers. The content store maps
// content identifiers to keys in one of these; a local file system
// backend ships with this repository and remote object stores plug in
// behind the same interface.
package storage
