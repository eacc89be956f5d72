package op

import "github.com/loom-ml/loom/internal/graph"

// Names of the core operations registered by NewRegistry.
const (
	NoOp             = "NoOp"
	Placeholder      = "Placeholder"
	Const            = "Const"
	Identity         = "Identity"
	Add              = "Add"
	Mul              = "Mul"
	MatMul           = "MatMul"
	SymbolicGradient = "SymbolicGradient"
)

func (r *Registry) registerCoreOps() {
	r.mustRegister(&Def{Name: NoOp})

	r.mustRegister(&Def{
		Name:    Placeholder,
		Outputs: []ArgDef{{Name: "output", TypeAttr: "dtype"}},
		Attrs: []AttrDef{
			{Name: "dtype", Kind: KindType},
			{Name: "shape", Kind: KindShape, Default: graph.ShapeAttr(nil)},
		},
	})

	r.mustRegister(&Def{
		Name:    Const,
		Outputs: []ArgDef{{Name: "output", TypeAttr: "dtype"}},
		Attrs:   []AttrDef{{Name: "dtype", Kind: KindType}},
	})

	r.mustRegister(&Def{
		Name:    Identity,
		Inputs:  []ArgDef{{Name: "input", TypeAttr: "T"}},
		Outputs: []ArgDef{{Name: "output", TypeAttr: "T"}},
		Attrs:   []AttrDef{{Name: "T", Kind: KindType}},
	})

	for _, name := range []string{Add, Mul} {
		r.mustRegister(&Def{
			Name: name,
			Inputs: []ArgDef{
				{Name: "x", TypeAttr: "T"},
				{Name: "y", TypeAttr: "T"},
			},
			Outputs: []ArgDef{{Name: "z", TypeAttr: "T"}},
			Attrs:   []AttrDef{{Name: "T", Kind: KindType}},
		})
	}

	r.mustRegister(&Def{
		Name: MatMul,
		Inputs: []ArgDef{
			{Name: "a", TypeAttr: "T"},
			{Name: "b", TypeAttr: "T"},
		},
		Outputs: []ArgDef{{Name: "product", TypeAttr: "T"}},
		Attrs: []AttrDef{
			{Name: "T", Kind: KindType},
			{Name: "transpose_a", Kind: KindBool, Default: graph.BoolAttr(false)},
			{Name: "transpose_b", Kind: KindBool, Default: graph.BoolAttr(false)},
		},
	})

	// Gradient nodes reference the function they differentiate through
	// the "f" attr. Their value outputs depend on the instantiated
	// function, which is outside declared-type resolution, so none are
	// declared here.
	r.mustRegister(&Def{
		Name:  SymbolicGradient,
		Attrs: []AttrDef{{Name: "f", Kind: KindFunc}},
	})
}

func (r *Registry) mustRegister(def *Def) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}
