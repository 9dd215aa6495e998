package x86ir

import (
	"fmt"
	"strconv"
	"strings"
)

// program.go holds the `.data`/`.text` containers: Data items, AsmBlock,
// and the top-level Program, plus the textual emission. (The driving CLI
// is responsible for deciding where this text goes - stdout or a `-o`
// path; Program.String() only renders it.)

// Data is one `.data` item: a string constant or a quad-word value.
type Data interface {
	isData()
	String() string
}

// Asciz is a NUL-terminated string constant, emitted as `.asciz "..."`.
type Asciz struct {
	Val string
}

// Quad is one 8-byte value, emitted as `.quad <literal-or-label>`.
type Quad struct {
	Val Immediate
}

func (Asciz) isData() {}
func (Quad) isData()  {}

func (d Asciz) String() string { return fmt.Sprintf("\t.asciz\t%s", strconv.Quote(d.Val)) }
func (d Quad) String() string {
	if lbl, ok := d.Val.(ImmLabel); ok {
		return "\t.quad\t" + string(lbl.Name)
	}
	return fmt.Sprintf("\t.quad\t%s", d.Val.String())
}

// AsmBlock is one labeled unit of output: a `.text` block of instructions
// or a `.data` block of data items, never both.
type AsmBlock struct {
	Label  Label
	Global bool // true if this label needs a `.globl` directive.
	Text   []Instruction
	Data   []Data
	IsData bool // true selects Data, false selects Text.
}

// String renders one AsmBlock: its `.globl` directive (if global), its
// label, and its tab-indented body.
func (b AsmBlock) String() string {
	sb := strings.Builder{}
	if b.Global {
		sb.WriteString(fmt.Sprintf("\t.globl\t%s\n", b.Label))
	}
	sb.WriteString(fmt.Sprintf("%s:\n", b.Label))
	if b.IsData {
		for _, d := range b.Data {
			sb.WriteString(d.String())
			sb.WriteString("\n")
		}
		return sb.String()
	}
	for _, i := range b.Text {
		sb.WriteString(i.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// Program is a complete translation unit: an ordered list of AsmBlocks,
// each one function or one global, in source declaration order, carried
// through to the final text.
type Program struct {
	Blocks []AsmBlock
}

// AddText appends a `.text` AsmBlock.
func (p *Program) AddText(label Label, global bool, body []Instruction) {
	p.Blocks = append(p.Blocks, AsmBlock{Label: label, Global: global, Text: body, IsData: false})
}

// AddData appends a `.data` AsmBlock.
func (p *Program) AddData(label Label, global bool, body []Data) {
	p.Blocks = append(p.Blocks, AsmBlock{Label: label, Global: global, Data: body, IsData: true})
}

// String renders the whole Program: a `.data` section gathering every
// data AsmBlock, then a `.text` section gathering every text AsmBlock,
// each group preserving Program's declaration order internally.
func (p *Program) String() string {
	sb := strings.Builder{}
	sb.WriteString(".data\n")
	for _, b := range p.Blocks {
		if b.IsData {
			sb.WriteString(b.String())
		}
	}
	sb.WriteString(".text\n")
	for _, b := range p.Blocks {
		if !b.IsData {
			sb.WriteString(b.String())
		}
	}
	return sb.String()
}
