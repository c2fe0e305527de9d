// Copyright (c) 2025-2026 complex (complex@ft.hn)
// See LICENSE for licensing information

package polynomial

import "strings"

// Generator lowers an instruction stream to imperative source with a single
// accumulator ACC.
type Generator struct {
	// Indent is repeated once per open block; DefaultIndent when empty.
	Indent string
}

// Statement returns the source text of a single instruction. Operands are
// emitted as their integral Argument.
func Statement(in Instruction) (string, error) {
	op, err := in.Op()
	if err != nil {
		return "", err
	}
	stmt := opTable[op].stmt
	if op.HasOperand() {
		stmt += " " + formatOperand(in.Argument())
	}
	return stmt, nil
}

// Translate returns the source lines for instrs. The first line declares
// the accumulator. Blocks that close below depth zero or stay open at the
// end are rejected.
func (g *Generator) Translate(instrs []Instruction) ([]string, error) {
	indent := g.Indent
	if indent == "" {
		indent = DefaultIndent
	}

	lines := make([]string, 0, len(instrs)+1)
	lines = append(lines, "ACC = 0")

	depth := 0
	for i, in := range instrs {
		op, err := in.Op()
		if err != nil {
			return nil, err
		}
		stmt, _ := Statement(in)
		lines = append(lines, strings.Repeat(indent, depth)+stmt)

		switch {
		case op.Opens():
			depth++
		case op.Closes():
			depth--
			if depth < 0 {
				return nil, errorf(StatusErrUnbalanced, "%s at instruction %d closes no block", op, i)
			}
		}
	}
	if depth != 0 {
		return nil, errorf(StatusErrUnbalanced, "%d block(s) left open", depth)
	}
	return lines, nil
}

// SourceText joins the generated lines of p, one per line
func (p *Program) SourceText() string {
	if len(p.Source) == 0 {
		return ""
	}
	return strings.Join(p.Source, "\n") + "\n"
}
