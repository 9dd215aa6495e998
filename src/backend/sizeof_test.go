package backend

import (
	"testing"

	"oatc/src/llvmlite"
)

func TestSizeofScalars(t *testing.T) {
	types := map[llvmlite.Tid]llvmlite.Type{}
	if got := sizeof(types, llvmlite.Void{}); got != 0 {
		t.Fatalf("sizeof(void) = %d, want 0", got)
	}
	if got := sizeof(types, llvmlite.I64{}); got != 8 {
		t.Fatalf("sizeof(i64) = %d, want 8", got)
	}
	if got := sizeof(types, llvmlite.I1{}); got != 8 {
		t.Fatalf("sizeof(i1) = %d, want 8", got)
	}
	if got := sizeof(types, llvmlite.Ptr{Elem: llvmlite.I8{}}); got != 8 {
		t.Fatalf("sizeof(i8*) = %d, want 8", got)
	}
}

func TestSizeofNestedAggregatesSumFieldSizes(t *testing.T) {
	types := map[llvmlite.Tid]llvmlite.Type{
		"pair": llvmlite.StructTy{Fields: []llvmlite.Type{llvmlite.I64{}, llvmlite.I64{}}},
	}
	nested := llvmlite.StructTy{Fields: []llvmlite.Type{
		llvmlite.I64{},
		llvmlite.NamedT{Name: "pair"},
		llvmlite.ArrayTy{N: 3, Elem: llvmlite.I64{}},
	}}
	if got, want := sizeof(types, nested), 8+16+24; got != want {
		t.Fatalf("sizeof(nested) = %d, want %d", got, want)
	}
}
