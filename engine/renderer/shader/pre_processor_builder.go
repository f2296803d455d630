package shader

// PreProcessorOption is a functional option applied to a pre-processor during construction via NewPreProcessor.
type PreProcessorOption func(*preProcessor)

// WithStruct registers a WGSL struct under an annotation key. A key that is already
// registered is replaced.
//
// Parameters:
//   - key: the key used in @oxy:include and @oxy:group annotations
//   - typeName: the WGSL type name emitted in group declarations
//   - source: the WGSL struct definition
//
// Returns:
//   - PreProcessorOption: a function that registers the struct
func WithStruct(key AnnotationArg, typeName, source string) PreProcessorOption {
	return func(p *preProcessor) {
		p.structRegistry[key] = registryEntry{Source: source, Type: typeName}
	}
}
