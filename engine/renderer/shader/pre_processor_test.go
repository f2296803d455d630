package shader

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessIncludeAndGroup(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	src := strings.Join([]string{
		"//@oxy:include camera",
		"//@oxy:include camera",
		"//@oxy:group 0 0 storage_uniform camera camera",
		"//@oxy:group 1 3 storage_read block lights",
		"fn main() {}",
	}, "\n")

	pp := NewPreProcessor()
	out, err := pp.Process(src)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "struct CameraUniform"), "includes are injected once")
	assert.Contains(t, out, "@group(0) @binding(0) var<uniform> camera: CameraUniform;")
	assert.Contains(t, out, "@group(1) @binding(3) var<storage, read> block: LightBlock;")
	assert.True(t, strings.HasSuffix(out, "fn main() {}"))

	decls := pp.Declarations()
	require.Len(t, decls, 2)
	assert.Equal(t, 3, decls[0].Line)
	assert.Equal(t, 1, decls[1].Group)
	assert.Equal(t, 3, decls[1].Binding)
	assert.Equal(t, "block", decls[1].Var)
	assert.Equal(t, AnnotationArgLights, decls[1].Struct)
}

func TestProcessResetsDeclarations(t *testing.T) {
	pp := NewPreProcessor()
	_, err := pp.Process("//@oxy:group 0 0 storage_uniform camera camera")
	require.NoError(t, err)
	_, err = pp.Process("fn main() {}")
	require.NoError(t, err)
	assert.Empty(t, pp.Declarations())
}

func TestWithStruct(t *testing.T) {
	pp := NewPreProcessor(WithStruct("fog", "Fog", "struct Fog { density: f32, };"))
	out, err := pp.Process("//@oxy:include fog\n//@oxy:group 0 2 storage_uniform fog fog")
	require.NoError(t, err)
	assert.Contains(t, out, "struct Fog")
	assert.Contains(t, out, "var<uniform> fog: Fog;")
}

func TestProcessErrors(t *testing.T) {
	cases := map[string]string{
		"empty":             "//@oxy:",
		"unknown type":      "//@oxy:shadow 0 0",
		"include arity":     "//@oxy:include",
		"unknown include":   "//@oxy:include material",
		"group arity":       "//@oxy:group 0 0 storage_uniform camera",
		"bad group":         "//@oxy:group x 0 storage_uniform camera camera",
		"bad binding":       "//@oxy:group 0 y storage_uniform camera camera",
		"negative binding":  "//@oxy:group 0 -1 storage_uniform camera camera",
		"bad address space": "//@oxy:group 0 0 push_constant camera camera",
		"unknown struct":    "//@oxy:group 0 0 storage_uniform m material",
		"duplicate binding": "//@oxy:group 0 0 storage_uniform a camera\n//@oxy:group 0 0 storage_uniform b lights",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewPreProcessor().Process(src)
			var ae *AnnotationError
			assert.ErrorAs(t, err, &ae)
		})
	}
}

func TestAnnotationErrorLine(t *testing.T) {
	_, err := NewPreProcessor().Process("fn main() {}\n\n  // @oxy:include material")
	var ae *AnnotationError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 3, ae.Line)
	assert.EqualError(t, err, `line 3: unknown struct "material"`)
}

func TestParseAnnotationIgnoresPlainLines(t *testing.T) {
	for _, line := range []string{"", "fn main() {}", "// a comment", "let s = \"@oxy:include camera\";"} {
		a, err := parseAnnotation(line, 1)
		assert.NoError(t, err)
		assert.Nil(t, a, line)
	}
}
