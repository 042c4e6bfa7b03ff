package edit

// Exported aliases for testing internal functions from
// the edit_test package.

// DecodeAll exposes decodeAll.
var DecodeAll = decodeAll
