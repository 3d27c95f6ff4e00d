package pipeline

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"
)

//go:embed shaders/edge.wgsl
var edgeShaderWGSL string

//go:embed shaders/node.wgsl
var nodeShaderWGSL string

// Shader entry points shared by both passes.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// ErrLayoutMismatch is returned when a pass's vertex buffer layout does not
// feed the inputs its compiled shader declares.
var ErrLayoutMismatch = errors.New("pipeline: vertex layout does not match shader")

// errShaderCompile wraps WGSL front-end and SPIR-V generation failures.
var errShaderCompile = errors.New("pipeline: shader compilation failed")

// ShaderModule is a WGSL source and, once compiled, its SPIR-V words and
// the interface reflected from its IR.
type ShaderModule struct {
	Label  string
	Source string
	SPIRV  []uint32

	// stages maps each entry point name to its stage.
	stages map[string]ir.ShaderStage
	// inputs maps the @location inputs of VertexEntry to their formats.
	inputs map[uint32]gputypes.VertexFormat
}

// Compiled reports whether SPIR-V is available.
func (m *ShaderModule) Compiled() bool {
	return len(m.SPIRV) > 0
}

// VertexInputs returns the @location inputs of the vertex entry point as
// reflected by the last successful compile.
func (m *ShaderModule) VertexInputs() map[uint32]gputypes.VertexFormat {
	return m.inputs
}

// compile parses, lowers and validates the WGSL source, records the entry
// point interface and translates the module to SPIR-V.
func (m *ShaderModule) compile() error {
	ast, err := naga.Parse(m.Source)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errShaderCompile, m.Label, err)
	}
	mod, err := naga.LowerWithSource(ast, m.Source)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errShaderCompile, m.Label, err)
	}
	verrs, err := naga.Validate(mod)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errShaderCompile, m.Label, err)
	}
	if len(verrs) > 0 {
		return fmt.Errorf("%w: %s: %w", errShaderCompile, m.Label, verrs[0])
	}

	stages, inputs, err := reflectModule(mod)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrLayoutMismatch, m.Label, err)
	}

	spirvBytes, err := naga.GenerateSPIRV(mod, spirv.Options{Version: spirv.Version1_3})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", errShaderCompile, m.Label, err)
	}

	// SPIR-V is little-endian 32-bit words.
	m.SPIRV = make([]uint32, len(spirvBytes)/4)
	for i := range m.SPIRV {
		m.SPIRV[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	m.stages, m.inputs = stages, inputs
	return nil
}

// reflectModule collects the entry point stages of mod and the location
// inputs of its vertex entry point.
func reflectModule(mod *ir.Module) (map[string]ir.ShaderStage, map[uint32]gputypes.VertexFormat, error) {
	stages := make(map[string]ir.ShaderStage, len(mod.EntryPoints))
	inputs := make(map[uint32]gputypes.VertexFormat)
	for _, ep := range mod.EntryPoints {
		stages[ep.Name] = ep.Stage
		if ep.Name != VertexEntry || ep.Stage != ir.StageVertex {
			continue
		}
		for _, arg := range ep.Function.Arguments {
			if arg.Binding == nil {
				// Struct arguments carry their bindings on the members.
				st, ok := mod.Types[arg.Type].Inner.(ir.StructType)
				if !ok {
					return nil, nil, fmt.Errorf("argument %s has no binding", arg.Name)
				}
				for _, mem := range st.Members {
					if err := addInput(mod, inputs, mem.Name, mem.Type, mem.Binding); err != nil {
						return nil, nil, err
					}
				}
				continue
			}
			if err := addInput(mod, inputs, arg.Name, arg.Type, arg.Binding); err != nil {
				return nil, nil, err
			}
		}
	}
	return stages, inputs, nil
}

// addInput records a location-bound input; builtins are ignored.
func addInput(mod *ir.Module, inputs map[uint32]gputypes.VertexFormat, name string, t ir.TypeHandle, b *ir.Binding) error {
	if b == nil {
		return fmt.Errorf("input %s has no binding", name)
	}
	loc, ok := (*b).(ir.LocationBinding)
	if !ok {
		return nil
	}
	if _, dup := inputs[loc.Location]; dup {
		return fmt.Errorf("location %d bound twice", loc.Location)
	}
	inputs[loc.Location] = vertexFormat(mod.Types[t].Inner)
	return nil
}

// vertexFormat maps a shader input type to the matching float vertex format.
func vertexFormat(t ir.TypeInner) gputypes.VertexFormat {
	f32 := ir.ScalarType{Kind: ir.ScalarFloat, Width: 4}
	switch t := t.(type) {
	case ir.ScalarType:
		if t == f32 {
			return gputypes.VertexFormatFloat32
		}
	case ir.VectorType:
		if t.Scalar != f32 {
			break
		}
		switch t.Size {
		case ir.Vec2:
			return gputypes.VertexFormatFloat32x2
		case ir.Vec3:
			return gputypes.VertexFormatFloat32x3
		case ir.Vec4:
			return gputypes.VertexFormatFloat32x4
		}
	}
	return gputypes.VertexFormatUndefined
}

// validate checks that the compiled module has both entry points and that
// every vertex input is supplied by exactly one attribute of matching format.
// Passes whose module failed to compile are not checked.
func (p *Pass) validate() error {
	m := p.Module
	if !m.Compiled() {
		return nil
	}
	for _, want := range []struct {
		name  string
		stage ir.ShaderStage
	}{{VertexEntry, ir.StageVertex}, {FragmentEntry, ir.StageFragment}} {
		if s, ok := m.stages[want.name]; !ok || s != want.stage {
			return fmt.Errorf("%w: %s pass has no %s entry point", ErrLayoutMismatch, p.Label, want.name)
		}
	}

	provided := make(map[uint32]gputypes.VertexFormat)
	for _, l := range p.Layout {
		for _, a := range l.Attributes {
			if _, dup := provided[a.ShaderLocation]; dup {
				return fmt.Errorf("%w: %s pass binds location %d twice", ErrLayoutMismatch, p.Label, a.ShaderLocation)
			}
			provided[a.ShaderLocation] = a.Format
		}
	}
	for loc, want := range m.inputs {
		got, ok := provided[loc]
		if !ok {
			return fmt.Errorf("%w: %s pass does not supply location %d", ErrLayoutMismatch, p.Label, loc)
		}
		if got != want {
			return fmt.Errorf("%w: %s pass location %d is %v, shader reads %v", ErrLayoutMismatch, p.Label, loc, got, want)
		}
	}
	return nil
}

// EdgeShaderSource returns the WGSL source of the edge pass.
func EdgeShaderSource() string { return edgeShaderWGSL }

// NodeShaderSource returns the WGSL source of the node pass.
func NodeShaderSource() string { return nodeShaderWGSL }
