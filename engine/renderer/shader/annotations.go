// Package shader expands the @oxy: comment annotations of the tube WGSL sources.
//
// An annotation is a line comment of the form //@oxy:<kind> <args...>. Two kinds exist:
//
//	//@oxy:include <struct>                                  injects a registered struct once
//	//@oxy:group <group> <binding> <space> <var> <struct>    declares a bound variable
//
// Struct keys resolve through the PreProcessor's registry, so parsing only checks the shape.
package shader

import (
	"fmt"
	"strconv"
	"strings"
)

const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a WGSL comment line.
type AnnotationType string

const (
	annotationTypeInclude AnnotationType = "include"

	// AnnotationTypeBindingGroup is the kind of every declaration returned by PreProcessor.Declarations.
	AnnotationTypeBindingGroup AnnotationType = "group"
)

// AnnotationArg is a struct key or address space named in an annotation.
type AnnotationArg string

const (
	// AnnotationArgCamera names the CameraUniform struct.
	AnnotationArgCamera AnnotationArg = "camera"

	// AnnotationArgLights names the Light and LightBlock structs.
	AnnotationArgLights AnnotationArg = "lights"
)

const (
	annotationArgStorageTypeUniform AnnotationArg = "storage_uniform"
	annotationArgStorageTypeRead    AnnotationArg = "storage_read"
)

// addressSpaces maps the annotation address spaces to their WGSL variable qualifiers.
var addressSpaces = map[AnnotationArg]string{
	annotationArgStorageTypeUniform: "var<uniform>",
	annotationArgStorageTypeRead:    "var<storage, read>",
}

// Annotation is one parsed @oxy: line.
type Annotation struct {
	Type AnnotationType

	// Line is the 1-based source line of the annotation.
	Line int

	// Struct is the registry key of the included or bound struct.
	Struct AnnotationArg

	// The remaining fields are only set for group annotations.
	Group   int
	Binding int
	Space   AnnotationArg
	Var     string
}

// AnnotationError reports a malformed or unresolvable annotation.
type AnnotationError struct {
	Line int
	Msg  string
}

func (e *AnnotationError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

func annotationErrorf(line int, format string, args ...any) error {
	return &AnnotationError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

// parseAnnotation parses one source line. Lines that are not // comments starting with the
// annotation prefix yield nil and no error.
//
// Parameters:
//   - line: the raw WGSL source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: an *AnnotationError if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	comment, ok := strings.CutPrefix(strings.TrimSpace(line), "//")
	if !ok {
		return nil, nil
	}
	body, ok := strings.CutPrefix(strings.TrimSpace(comment), annotationPrefix)
	if !ok {
		return nil, nil
	}

	fields := strings.Fields(body)
	if len(fields) == 0 {
		return nil, annotationErrorf(lineNum, "empty annotation")
	}
	kind, args := AnnotationType(fields[0]), fields[1:]

	switch kind {
	case annotationTypeInclude:
		if len(args) != 1 {
			return nil, annotationErrorf(lineNum, "include takes one struct, got %d arguments", len(args))
		}
		return &Annotation{Type: kind, Line: lineNum, Struct: AnnotationArg(args[0])}, nil

	case AnnotationTypeBindingGroup:
		if len(args) != 5 {
			return nil, annotationErrorf(lineNum, "group takes <group> <binding> <space> <var> <struct>, got %d arguments", len(args))
		}
		group, err := parseIndex(args[0])
		if err != nil {
			return nil, annotationErrorf(lineNum, "group %q: %v", args[0], err)
		}
		binding, err := parseIndex(args[1])
		if err != nil {
			return nil, annotationErrorf(lineNum, "binding %q: %v", args[1], err)
		}
		space := AnnotationArg(args[2])
		if _, ok := addressSpaces[space]; !ok {
			return nil, annotationErrorf(lineNum, "unknown address space %q", space)
		}
		return &Annotation{
			Type:    kind,
			Line:    lineNum,
			Struct:  AnnotationArg(args[4]),
			Group:   group,
			Binding: binding,
			Space:   space,
			Var:     args[3],
		}, nil
	}
	return nil, annotationErrorf(lineNum, "unknown annotation %q", kind)
}

func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return n, nil
}
