//  Copyright (c) 2026 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"go/ast"
	"go/token"
	"go/types"

	"golang.org/x/tools/go/ast/astutil"
	"golang.org/x/tools/go/ssa"
)

// describe returns the source text of v if it can be found, or a short description otherwise.
func (x *explorer) describe(v ssa.Value) string {
	switch v := v.(type) {
	case *ssa.BinOp, *ssa.UnOp:
		if e := x.operatorExpr(v.Pos()); e != nil {
			return types.ExprString(e)
		}
	case *ssa.Extract:
		if call, ok := v.Tuple.(*ssa.Call); ok {
			if name := x.assignee(call.Pos(), v.Index); name != "" {
				return name
			}
		}
	case *ssa.Call:
		if name := x.assignee(v.Pos(), 0); name != "" {
			return name
		}
	}
	return valueLabel(v)
}

// operandText returns the source text of the operand of the unary or comparison expression of c
// that is not a nil or boolean literal, falling back to a description of operand.
func (x *explorer) operandText(c ssa.Value, operand ssa.Value) string {
	switch e := x.operatorExpr(c.Pos()).(type) {
	case *ast.UnaryExpr:
		return types.ExprString(ast.Unparen(e.X))
	case *ast.BinaryExpr:
		switch {
		case isLiteral(e.Y):
			return types.ExprString(ast.Unparen(e.X))
		case isLiteral(e.X):
			return types.ExprString(ast.Unparen(e.Y))
		}
	}
	return x.describe(operand)
}

// path returns the syntax nodes enclosing pos, innermost first.
func (x *explorer) path(pos token.Pos) []ast.Node {
	if x.conf.FileOf == nil || !pos.IsValid() {
		return nil
	}
	file := x.conf.FileOf(pos)
	if file == nil {
		return nil
	}
	path, _ := astutil.PathEnclosingInterval(file, pos, pos)
	return path
}

// operatorExpr returns the unary or binary expression whose operator is at pos.
func (x *explorer) operatorExpr(pos token.Pos) ast.Expr {
	for _, n := range x.path(pos) {
		switch e := n.(type) {
		case *ast.UnaryExpr:
			if e.OpPos == pos {
				return e
			}
		case *ast.BinaryExpr:
			if e.OpPos == pos {
				return e
			}
		}
	}
	return nil
}

// assignee returns the name of the variable receiving the index-th result of the call whose left
// parenthesis is at lparen, or "" if the result is not assigned to a named variable.
func (x *explorer) assignee(lparen token.Pos, index int) string {
	isCall := func(e ast.Expr) bool {
		call, ok := ast.Unparen(e).(*ast.CallExpr)
		return ok && call.Lparen == lparen
	}

	var lhs []ast.Expr
loop:
	for _, n := range x.path(lparen) {
		switch n := n.(type) {
		case *ast.AssignStmt:
			lhs = resultTargets(n.Lhs, n.Rhs, isCall, index)
		case *ast.ValueSpec:
			names := make([]ast.Expr, len(n.Names))
			for i, name := range n.Names {
				names[i] = name
			}
			lhs = resultTargets(names, n.Values, isCall, index)
		case ast.Stmt, *ast.FuncLit:
			return ""
		default:
			continue
		}
		break loop
	}
	if len(lhs) != 1 {
		return ""
	}
	if ident, ok := lhs[0].(*ast.Ident); ok && ident.Name != "_" {
		return ident.Name
	}
	return ""
}

// resultTargets returns the left-hand side expression receiving the index-th result of the call
// matched by isCall among rhs.
func resultTargets(lhs, rhs []ast.Expr, isCall func(ast.Expr) bool, index int) []ast.Expr {
	switch {
	case len(rhs) == 1 && isCall(rhs[0]) && index < len(lhs):
		return lhs[index : index+1]
	case len(rhs) == len(lhs) && index == 0:
		for i, e := range rhs {
			if isCall(e) {
				return lhs[i : i+1]
			}
		}
	}
	return nil
}

func isLiteral(e ast.Expr) bool {
	ident, ok := ast.Unparen(e).(*ast.Ident)
	return ok && (ident.Name == "nil" || ident.Name == "true" || ident.Name == "false")
}
