// Package mutate holds the mutation-operator boundary: it expands one
// subject's source region into concrete mutations.
package mutate

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"log/slog"
	"os"

	m "gooze.dev/pkg/mutenv/internal/model"
)

// Generator expands a source region into mutations on behalf of a subject.
// Implementations absorb their own failures: a region that cannot be read
// or parsed yields no mutations, never an error, because subject expansion
// is defined to be infallible.
type Generator interface {
	Generate(region m.SourceRegion, owner string) []m.Mutation
}

// ASTGenerator produces arithmetic-operator and boolean-literal mutations
// by walking the parsed source of the region's file.
type ASTGenerator struct {
	types []m.MutationType
}

// NewASTGenerator constructs an ASTGenerator. With no types given it
// generates every supported mutation type.
func NewASTGenerator(types ...m.MutationType) *ASTGenerator {
	if len(types) == 0 {
		types = []m.MutationType{m.MutationArithmetic, m.MutationBoolean}
	}

	return &ASTGenerator{types: append([]m.MutationType(nil), types...)}
}

// Generate returns the mutations inside region, in file order per type.
func (g *ASTGenerator) Generate(region m.SourceRegion, owner string) []m.Mutation {
	content, err := os.ReadFile(string(region.File))
	if err != nil {
		slog.Warn("mutation generation skipped", "file", string(region.File), "error", err)
		return nil
	}

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, string(region.File), content, parser.SkipObjectResolution)
	if err != nil {
		slog.Warn("mutation generation skipped", "file", string(region.File), "error", err)
		return nil
	}

	var mutations []m.Mutation

	counter := 0

	for _, mutationType := range g.types {
		ast.Inspect(file, func(n ast.Node) bool {
			if n == nil {
				return true
			}

			line := fset.Position(n.Pos()).Line
			if line < region.StartLine || line > region.EndLine {
				return true
			}

			mutations = append(mutations, generateForNode(mutationType, n, fset, owner, region.File, &counter)...)

			return true
		})
	}

	return mutations
}

func generateForNode(mutationType m.MutationType, n ast.Node, fset *token.FileSet, owner string, file m.Path, counter *int) []m.Mutation {
	switch mutationType {
	case m.MutationArithmetic:
		return arithmeticMutations(n, fset, owner, file, counter)
	case m.MutationBoolean:
		return booleanMutations(n, fset, owner, file, counter)
	}

	return nil
}

// arithmeticMutations replaces a binary arithmetic operator with each of
// its alternatives.
func arithmeticMutations(n ast.Node, fset *token.FileSet, owner string, file m.Path, counter *int) []m.Mutation {
	binExpr, ok := n.(*ast.BinaryExpr)
	if !ok || !isArithmeticOp(binExpr.Op) {
		return nil
	}

	pos := fset.Position(binExpr.OpPos)

	var mutations []m.Mutation

	for _, mutatedOp := range arithmeticAlternatives(binExpr.Op) {
		*counter++

		mutations = append(mutations, m.Mutation{
			ID:         fmt.Sprintf("%s:ARITH_%d", owner, *counter),
			Type:       m.MutationArithmetic,
			Subject:    owner,
			SourceFile: file,
			Line:       pos.Line,
			Column:     pos.Column,
			Original:   binExpr.Op.String(),
			Mutated:    mutatedOp.String(),
		})
	}

	return mutations
}

// booleanMutations flips boolean literals.
func booleanMutations(n ast.Node, fset *token.FileSet, owner string, file m.Path, counter *int) []m.Mutation {
	ident, ok := n.(*ast.Ident)
	if !ok || (ident.Name != "true" && ident.Name != "false") {
		return nil
	}

	pos := fset.Position(ident.Pos())
	*counter++

	mutated := "true"
	if ident.Name == "true" {
		mutated = "false"
	}

	return []m.Mutation{{
		ID:         fmt.Sprintf("%s:BOOL_%d", owner, *counter),
		Type:       m.MutationBoolean,
		Subject:    owner,
		SourceFile: file,
		Line:       pos.Line,
		Column:     pos.Column,
		Original:   ident.Name,
		Mutated:    mutated,
	}}
}

func isArithmeticOp(op token.Token) bool {
	return op == token.ADD || op == token.SUB || op == token.MUL || op == token.QUO || op == token.REM
}

func arithmeticAlternatives(original token.Token) []token.Token {
	allOps := []token.Token{token.ADD, token.SUB, token.MUL, token.QUO, token.REM}

	var alternatives []token.Token

	for _, op := range allOps {
		if op != original {
			alternatives = append(alternatives, op)
		}
	}

	return alternatives
}
