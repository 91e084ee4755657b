package linalg

import "github.com/cwbudde/algo-tensor/engine"

// Engine functions for the scalar operations. The arithmetic ones carry a
// kernel tag so float32 vectors take the batched path.
var (
	AddOp  = engine.Binary{Fn: Add, Known: engine.KernelAdd}
	SubOp  = engine.Binary{Fn: Sub, Known: engine.KernelSub}
	MulOp  = engine.Binary{Fn: Mul, Known: engine.KernelMul}
	DivOp  = engine.Binary{Fn: Div, Known: engine.KernelDiv}
	PowOp  = engine.Binary{Fn: Pow}
	RootOp = engine.Binary{Fn: Root}

	AbsOp = engine.Unary{Fn: Abs, Known: engine.KernelAbs}

	AddArgOp  = engine.BinaryArg{Fn: AddWithArg, Known: engine.KernelAdd}
	SubArgOp  = engine.BinaryArg{Fn: SubWithArg, Known: engine.KernelSub}
	MulArgOp  = engine.BinaryArg{Fn: MulWithArg, Known: engine.KernelMul}
	DivArgOp  = engine.BinaryArg{Fn: DivWithArg, Known: engine.KernelDiv}
	PowArgOp  = engine.BinaryArg{Fn: PowWithArg}
	RootArgOp = engine.BinaryArg{Fn: RootWithArg}
)
