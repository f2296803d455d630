package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-tunnel/engine/camera"
	"github.com/Carmen-Shannon/oxy-tunnel/engine/light"
)

// registryEntry is a struct that can be included and bound.
type registryEntry struct {
	// Source is the WGSL struct definition injected by include.
	Source string
	// Type is the WGSL type name used in group declarations, e.g. "CameraUniform".
	Type string
}

type preProcessor struct {
	structRegistry map[AnnotationArg]registryEntry

	// declarations is reset at the start of each Process call.
	declarations []Annotation
}

// PreProcessor expands @oxy: annotations in WGSL source.
type PreProcessor interface {
	// Process replaces include annotations with the registered struct source and group
	// annotations with @group/@binding variable declarations. Each struct is injected at most
	// once and a group/binding pair may only be declared once.
	//
	// Parameters:
	//   - source: WGSL source containing annotations
	//
	// Returns:
	//   - string: the expanded WGSL source
	//   - error: an *AnnotationError for malformed annotations or unknown structs
	Process(source string) (string, error)

	// Declarations returns the group annotations of the most recent Process call, in source order.
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the camera and lights structs registered.
//
// Parameters:
//   - options: variadic list of PreProcessorOption functions registering extra structs
//
// Returns:
//   - PreProcessor: the new pre-processor
func NewPreProcessor(options ...PreProcessorOption) PreProcessor {
	p := &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgCamera: {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
			AnnotationArgLights: {Source: light.GPULightSource, Type: "LightBlock"},
		},
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = p.declarations[:0]
	included := map[AnnotationArg]bool{}

	var out strings.Builder
	for i, line := range strings.Split(source, "\n") {
		if i > 0 {
			out.WriteByte('\n')
		}
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out.WriteString(line)
			continue
		}

		entry, ok := p.structRegistry[a.Struct]
		if !ok {
			return "", annotationErrorf(a.Line, "unknown struct %q", a.Struct)
		}
		if a.Type == annotationTypeInclude {
			if !included[a.Struct] {
				included[a.Struct] = true
				out.WriteString(strings.TrimRight(entry.Source, "\n"))
			}
			continue
		}

		for _, d := range p.declarations {
			if d.Group == a.Group && d.Binding == a.Binding {
				return "", annotationErrorf(a.Line, "group %d binding %d already declared on line %d", a.Group, a.Binding, d.Line)
			}
		}
		fmt.Fprintf(&out, "@group(%d) @binding(%d) %s %s: %s;", a.Group, a.Binding, addressSpaces[a.Space], a.Var, entry.Type)
		p.declarations = append(p.declarations, *a)
	}
	return out.String(), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return p.declarations
}
