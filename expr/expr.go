/*
 * expr.go, part of gomagnon.
 *
 * Copyright 2024 Raul Mera rauldotmeraatusachdotcl
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

//Package expr evaluates complex-valued arithmetic expressions with user
//variables, as used for the symbolic fields of magnetic models (site
//positions, spin magnitudes, coupling constants). Expressions are parsed
//with go/parser, so the syntax is Go's expression syntax with two
//conveniences: imaginary literals ("0.5i") work as in Go, and '^' is
//interpreted as exponentiation rather than XOR.
package expr

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"math"
	"math/cmplx"
	"strconv"
)

//Parser evaluates expressions against a set of named variables. The
//zero value is not usable; create a Parser with New.
type Parser struct {
	vars map[string]complex128
}

//New returns a Parser with the constants pi and e predefined.
func New() *Parser {
	return &Parser{vars: map[string]complex128{
		"pi": complex(math.Pi, 0),
		"e":  complex(math.E, 0),
	}}
}

//Set registers (or replaces) a variable for use in expressions.
func (p *Parser) Set(name string, value complex128) {
	p.vars[name] = value
}

//Eval parses and evaluates the expression s. An empty string evaluates
//to zero, so optional model fields need no special casing by callers.
func (p *Parser) Eval(s string) (complex128, error) {
	if s == "" {
		return 0, nil
	}
	node, err := parser.ParseExpr(s)
	if err != nil {
		return 0, fmt.Errorf("expr: cannot parse %q: %w", s, err)
	}
	return p.eval(node)
}

//EvalReal evaluates s and returns the real part of the result.
func (p *Parser) EvalReal(s string) (float64, error) {
	v, err := p.Eval(s)
	return real(v), err
}

func (p *Parser) eval(node ast.Expr) (complex128, error) {
	switch n := node.(type) {
	case *ast.BasicLit:
		return evalLit(n)
	case *ast.Ident:
		if v, ok := p.vars[n.Name]; ok {
			return v, nil
		}
		return 0, fmt.Errorf("expr: unknown variable %q", n.Name)
	case *ast.ParenExpr:
		return p.eval(n.X)
	case *ast.UnaryExpr:
		v, err := p.eval(n.X)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case token.SUB:
			return -v, nil
		case token.ADD:
			return v, nil
		}
		return 0, fmt.Errorf("expr: unsupported unary operator %q", n.Op)
	case *ast.BinaryExpr:
		a, err := p.eval(n.X)
		if err != nil {
			return 0, err
		}
		b, err := p.eval(n.Y)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case token.ADD:
			return a + b, nil
		case token.SUB:
			return a - b, nil
		case token.MUL:
			return a * b, nil
		case token.QUO:
			if b == 0 {
				return 0, fmt.Errorf("expr: division by zero")
			}
			return a / b, nil
		case token.XOR: //read as exponentiation
			return cmplx.Pow(a, b), nil
		}
		return 0, fmt.Errorf("expr: unsupported operator %q", n.Op)
	case *ast.CallExpr:
		return p.evalCall(n)
	}
	return 0, fmt.Errorf("expr: unsupported syntax %T", node)
}

func evalLit(lit *ast.BasicLit) (complex128, error) {
	switch lit.Kind {
	case token.INT, token.FLOAT:
		f, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			return 0, fmt.Errorf("expr: bad number %q: %w", lit.Value, err)
		}
		return complex(f, 0), nil
	case token.IMAG:
		f, err := strconv.ParseFloat(lit.Value[:len(lit.Value)-1], 64)
		if err != nil {
			return 0, fmt.Errorf("expr: bad imaginary literal %q: %w", lit.Value, err)
		}
		return complex(0, f), nil
	}
	return 0, fmt.Errorf("expr: unsupported literal %q", lit.Value)
}

var functions = map[string]func(complex128) complex128{
	"sin":   cmplx.Sin,
	"cos":   cmplx.Cos,
	"tan":   cmplx.Tan,
	"asin":  cmplx.Asin,
	"acos":  cmplx.Acos,
	"atan":  cmplx.Atan,
	"sinh":  cmplx.Sinh,
	"cosh":  cmplx.Cosh,
	"tanh":  cmplx.Tanh,
	"sqrt":  cmplx.Sqrt,
	"exp":   cmplx.Exp,
	"log":   cmplx.Log,
	"abs":   func(z complex128) complex128 { return complex(cmplx.Abs(z), 0) },
	"arg":   func(z complex128) complex128 { return complex(cmplx.Phase(z), 0) },
	"conj":  cmplx.Conj,
	"real":  func(z complex128) complex128 { return complex(real(z), 0) },
	"imag":  func(z complex128) complex128 { return complex(imag(z), 0) },
	"floor": func(z complex128) complex128 { return complex(math.Floor(real(z)), 0) },
}

func (p *Parser) evalCall(call *ast.CallExpr) (complex128, error) {
	id, ok := call.Fun.(*ast.Ident)
	if !ok {
		return 0, fmt.Errorf("expr: only plain function calls are supported")
	}
	f, ok := functions[id.Name]
	if !ok {
		return 0, fmt.Errorf("expr: unknown function %q", id.Name)
	}
	if len(call.Args) != 1 {
		return 0, fmt.Errorf("expr: %s takes one argument, got %d", id.Name, len(call.Args))
	}
	arg, err := p.eval(call.Args[0])
	if err != nil {
		return 0, err
	}
	return f(arg), nil
}
