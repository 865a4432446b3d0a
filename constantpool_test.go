package pjc

import "testing"

func buildTestPool() *ConstantPool {
	// Slots: 1=Utf8("Foo") 2=Class(1) 3=Utf8("bar") 4=Utf8("()V")
	// 5=NameAndType(3,4) 6=MethodRef(2,5) 7=Utf8("hi") 8=String(7)
	cp := newConstantPool(9)
	cp.set(1, ConstantPoolEntry{Tag: CPUtf8, Utf8: "Foo"})
	cp.set(2, ConstantPoolEntry{Tag: CPClass, NameIndex: 1})
	cp.set(3, ConstantPoolEntry{Tag: CPUtf8, Utf8: "bar"})
	cp.set(4, ConstantPoolEntry{Tag: CPUtf8, Utf8: "()V"})
	cp.set(5, ConstantPoolEntry{Tag: CPNameAndType, NameIndex: 3, DescIndex: 4})
	cp.set(6, ConstantPoolEntry{Tag: CPMethodRef, ClassIndex: 2, NatIndex: 5})
	cp.set(7, ConstantPoolEntry{Tag: CPUtf8, Utf8: "hi"})
	cp.set(8, ConstantPoolEntry{Tag: CPString, Utf8Index: 7})
	return cp
}

func TestConstantPoolResolution(t *testing.T) {
	cp := buildTestPool()

	if got := cp.Utf8At(1); got != "Foo" {
		t.Errorf("Utf8At(1)=%q, want %q", got, "Foo")
	}
	if got := cp.ClassName(2); got != "Foo" {
		t.Errorf("ClassName(2)=%q, want %q", got, "Foo")
	}
	name, desc := cp.NameAndType(5)
	if name != "bar" || desc != "()V" {
		t.Errorf("NameAndType(5)=(%q,%q), want (%q,%q)", name, desc, "bar", "()V")
	}
	class, mname, mdesc := cp.MethodRef(6)
	if class != "Foo" || mname != "bar" || mdesc != "()V" {
		t.Errorf("MethodRef(6)=(%q,%q,%q), want (%q,%q,%q)", class, mname, mdesc, "Foo", "bar", "()V")
	}
	if got := cp.StringAt(8); got != "hi" {
		t.Errorf("StringAt(8)=%q, want %q", got, "hi")
	}
}

func TestConstantPoolWrongTagIsFatal(t *testing.T) {
	cp := buildTestPool()
	defer func() {
		rec := recover()
		if _, ok := ClassifyRecover(rec); !ok {
			t.Fatalf("expected a Diagnostic panic for a tag mismatch")
		}
	}()
	cp.Utf8At(2) // index 2 is CPClass, not CPUtf8
	t.Fatalf("Utf8At on a CPClass entry did not panic")
}

func TestConstantPoolOutOfRangeIsFatal(t *testing.T) {
	cp := buildTestPool()
	defer func() {
		rec := recover()
		if _, ok := ClassifyRecover(rec); !ok {
			t.Fatalf("expected a Diagnostic panic for an out-of-range index")
		}
	}()
	cp.Utf8At(99)
	t.Fatalf("Utf8At on an out-of-range index did not panic")
}
