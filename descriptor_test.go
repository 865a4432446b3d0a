package pjc

import (
	"reflect"
	"testing"
)

func TestCountArgs(t *testing.T) {
	for _, tc := range []struct {
		descriptor string
		want       int
	}{
		{"()V", 0},
		{"(I)V", 1},
		{"(IIF)V", 3},
		{"(Ljava/lang/String;I)V", 2},
		{"([IJ)V", 2},
	} {
		if got := CountArgs(tc.descriptor); got != tc.want {
			t.Errorf("CountArgs(%q)=%d, want %d", tc.descriptor, got, tc.want)
		}
	}
}

func TestArgDescriptors(t *testing.T) {
	for _, tc := range []struct {
		descriptor string
		want       []string
	}{
		{"()V", nil},
		{"(ILjava/lang/String;[I)V", []string{"I", "Ljava/lang/String;", "[I"}},
	} {
		got := ArgDescriptors(tc.descriptor)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ArgDescriptors(%q)=%v, want %v", tc.descriptor, got, tc.want)
		}
	}
}

func TestReturnDescriptor(t *testing.T) {
	for _, tc := range []struct {
		descriptor string
		want       string
	}{
		{"()V", "V"},
		{"(I)Ljava/lang/String;", "Ljava/lang/String;"},
		{"()[I", "[I"},
	} {
		if got := ReturnDescriptor(tc.descriptor); got != tc.want {
			t.Errorf("ReturnDescriptor(%q)=%q, want %q", tc.descriptor, got, tc.want)
		}
	}
}

func TestSpellType(t *testing.T) {
	for _, tc := range []struct {
		descriptor string
		flags      uint16
		spelling   string
		isArray    bool
	}{
		{"I", 0, "i32", false},
		{"I", FlagUnsigned, "ui32", false},
		{"I", FlagConst, "const i32", false},
		{"Z", 0, "bool", false},
		{"[I", 0, "i32[]", true},
		{"Ljava/lang/String;", 0, "String", false},
		{"Ltypes/unsigned;", 0, "unsigned_t", false},
		{"Lgamebuino/Image;", 0, "gamebuino::Image", false},
	} {
		spelling, isArray := SpellType(tc.descriptor, tc.flags)
		if spelling != tc.spelling || isArray != tc.isArray {
			t.Errorf("SpellType(%q, %d)=(%q,%v), want (%q,%v)",
				tc.descriptor, tc.flags, spelling, isArray, tc.spelling, tc.isArray)
		}
	}
}
