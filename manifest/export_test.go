package manifest

// Exported aliases for testing internal types and
// functions from the manifest_test package.

// NamedMapping is an alias for namedMapping.
type NamedMapping = namedMapping

// PathMappingsForTest exposes pathMappings.
var PathMappingsForTest = pathMappings

// ComposeImageForTest exposes composeImage.
var ComposeImageForTest = composeImage

// ImageAtPathsForTest exposes imageAtPaths.
var ImageAtPathsForTest = imageAtPaths

// Name returns the container name of a namedMapping.
func (nm namedMapping) Name() string { return nm.name }

// Mapping returns the path mapping of a namedMapping.
func (nm namedMapping) Mapping() PathMapping { return nm.mapping }
