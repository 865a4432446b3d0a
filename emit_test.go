package pjc

import (
	"bytes"
	"strings"
	"testing"
)

func sampleClass(name string, hasBoard bool) *Class {
	return &Class{
		Name:      name,
		SuperName: "java/lang/Object",
		Bootstrap: map[int]BootstrapEntry{},
		Fields: []*Field{
			{Name: "counter", TypeSpelling: "i32", AccessFlags: AccPrivate | AccStatic},
		},
		Methods: []*Method{
			{Name: "<init>", Descriptor: "()V", AccessFlags: AccPublic},
			{Name: "tick", Descriptor: "(I)V", AccessFlags: AccPublic,
				Instructions: []Instruction{
					{Text: "counter = counter + local_1;"},
				}},
		},
		HasBoard: hasBoard,
	}
}

func TestEmitterHeaderNonBoardClass(t *testing.T) {
	class := sampleClass("Counter", false)
	e := NewEmitter(NewProject(), class)
	header := e.Header()

	if !bytes.Contains(header, []byte("class Counter {")) {
		t.Errorf("header missing class declaration: %s", header)
	}
	if !bytes.Contains(header, []byte("tick(i32 local_1);")) {
		t.Errorf("header missing method signature: %s", header)
	}
	if !bytes.Contains(header, []byte("#ifndef COUNTER_H")) {
		t.Errorf("header missing include guard: %s", header)
	}
}

func TestEmitterHeaderPartitionsPrivateMembers(t *testing.T) {
	class := sampleClass("Counter", false)
	e := NewEmitter(NewProject(), class)
	header := string(e.Header())

	privateIdx := strings.Index(header, "private:")
	fieldIdx := strings.Index(header, "static i32 counter;")
	if privateIdx < 0 {
		t.Fatalf("header missing private: section: %s", header)
	}
	if fieldIdx < 0 || fieldIdx < privateIdx {
		t.Errorf("private field must appear after \"private:\", got header: %s", header)
	}
	if strings.Contains(header[:privateIdx], "static i32 counter;") {
		t.Errorf("private field leaked into the public: section: %s", header)
	}
}

func TestEmitterHeaderBoardClass(t *testing.T) {
	class := sampleClass("Game", true)
	e := NewEmitter(NewProject(), class)
	header := e.Header()

	if bytes.Contains(header, []byte("class Game {")) {
		t.Errorf("board-carrying class should not be wrapped in a class body: %s", header)
	}
	if !bytes.Contains(header, []byte("extern static i32 counter;")) {
		t.Errorf("header missing free extern field decl: %s", header)
	}
}

func TestEmitterImplementationRendersBody(t *testing.T) {
	class := sampleClass("Counter", false)
	e := NewEmitter(NewProject(), class)
	impl := e.Implementation()

	if !bytes.Contains(impl, []byte(`#include "Counter.h"`)) {
		t.Errorf("implementation missing self-include: %s", impl)
	}
	if !bytes.Contains(impl, []byte("void Counter::tick(i32 local_1)")) {
		t.Errorf("implementation missing scoped method definition: %s", impl)
	}
	if !bytes.Contains(impl, []byte("counter = counter + local_1;")) {
		t.Errorf("implementation missing method body statement: %s", impl)
	}
}

func TestEmitterIncludesSiblingClasses(t *testing.T) {
	a := sampleClass("Main", true)
	b := sampleClass("Sprite", false)
	project := &Project{Classes: []*Class{a, b}}

	header := NewEmitter(project, a).Header()
	if !bytes.Contains(header, []byte(`#include "Sprite.h"`)) {
		t.Errorf("header missing sibling include: %s", header)
	}
	if bytes.Contains(header, []byte(`#include "Main.h"`)) {
		t.Errorf("header should not include itself: %s", header)
	}
}
