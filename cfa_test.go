package pjc

import "testing"

// testOpIload1/testOpIconst1/testOpIstore1 mirror interp.go's opcode table for the
// "local_1 = local_1 + 1; return;" method body this test decompiles.
const (
	testOpIload1  = 0x1b // opIload0 + 1
	testOpIconst1 = 0x04 // opIconst0 + 1
	testOpIadd    = 0x60
	testOpIstore1 = 0x3c // opIstore0 + 1
	testOpReturn  = 0xb1
)

func TestControlFlowAnalyzerSequentialMethod(t *testing.T) {
	class := &Class{Name: "Counter", Bootstrap: map[int]BootstrapEntry{}}
	method := &Method{
		Name:       "tick",
		Descriptor: "()V",
		Code:       []byte{testOpIload1, testOpIconst1, testOpIadd, testOpIstore1, testOpReturn},
		LineNumberTable: []LineEntry{
			{StartPC: 0, Line: 10},
			{StartPC: 4, Line: 11},
		},
	}

	instructions := NewControlFlowAnalyzer(class, method, NewProject()).Run()

	want := []string{"i32 local_1 = (local_1 + 1);", "return;"}
	if len(instructions) != len(want) {
		t.Fatalf("got %d instructions, want %d: %+v", len(instructions), len(want), instructions)
	}
	for i, w := range want {
		if instructions[i].Text != w {
			t.Errorf("instructions[%d]=%q, want %q", i, instructions[i].Text, w)
		}
	}
}

func TestControlFlowAnalyzerMainReturnsZero(t *testing.T) {
	class := &Class{Name: "Entry", Bootstrap: map[int]BootstrapEntry{}}
	method := &Method{
		Name:            "main",
		Descriptor:      "()V",
		Code:            []byte{testOpReturn},
		LineNumberTable: []LineEntry{{StartPC: 0, Line: 5}},
	}

	instructions := NewControlFlowAnalyzer(class, method, NewProject()).Run()
	if len(instructions) != 1 || instructions[0].Text != "return 0;" {
		t.Errorf("main's bare return got %+v, want a single \"return 0;\"", instructions)
	}
}
