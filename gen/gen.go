// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package gen writes rxvm programs as Go source.
package gen

import (
	"errors"
	"go/token"
	"io"

	"github.com/dave/jennifer/jen"

	"github.com/ezrec/rxvm/translate"
	"github.com/ezrec/rxvm/vm"
)

var f = translate.From

const vmPath = "github.com/ezrec/rxvm/vm"

var (
	ErrPackageInvalid = errors.New(f("package name invalid"))
	ErrNameInvalid    = errors.New(f("program name invalid"))
)

// inst renders a single instruction constructor call.
func inst(in vm.Inst) jen.Code {
	switch in.Op {
	case vm.OP_CHAR:
		return jen.Qual(vmPath, "Char").Call(jen.LitRune(in.Rune))
	case vm.OP_JUMP:
		return jen.Qual(vmPath, "Jump").Call(jen.Lit(in.X))
	case vm.OP_SPLIT:
		return jen.Qual(vmPath, "Split").Call(jen.Lit(in.X), jen.Lit(in.Y))
	default:
		return jen.Qual(vmPath, "Match").Call()
	}
}

// Generate writes a Go file for package pkg that declares the program
// as the variable name, and a nameMatches(text) function.
func Generate(w io.Writer, pkg string, name string, prog *vm.Program) (err error) {
	if !token.IsIdentifier(pkg) {
		err = ErrPackageInvalid
		return
	}
	if !token.IsIdentifier(name) {
		err = ErrNameInvalid
		return
	}

	err = prog.Validate()
	if err != nil {
		return
	}

	file := jen.NewFile(pkg)
	file.ImportName(vmPath, "vm")
	file.HeaderComment("Code generated by rxvm. DO NOT EDIT.")

	insts := make([]jen.Code, 0, prog.Len())
	for _, in := range prog.Insts() {
		insts = append(insts, inst(in))
	}

	file.Commentf("%s is a compiled rxvm program.", name)
	file.Var().Id(name).Op("=").Qual(vmPath, "NewProgram").Custom(jen.Options{
		Open:      "(",
		Close:     ")",
		Separator: ",",
		Multi:     true,
	}, insts...)
	file.Line()

	matches := name + "Matches"
	file.Commentf("%s returns true if a prefix of text is matched by %s.", matches, name)
	file.Func().Id(matches).Params(jen.Id("text").String()).Bool().Block(
		jen.Return(jen.Qual(vmPath, "Matches").Call(jen.Id(name), jen.Id("text"))),
	)

	err = file.Render(w)
	return
}
