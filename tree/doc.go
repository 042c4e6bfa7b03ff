// Package tree provides tolerant accessors over decoded YAML
// documents. Mappings are ordered yaml.MapSlice values so key order
// survives a decode/encode round trip; every lookup reports absence
// through an ok flag instead of raising, and writes refuse to create
// structure that is not already there.
package tree
