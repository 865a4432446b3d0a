package pjc

import "testing"

// fieldTableBytes builds the field_info table portion of a classfile
// (field_count followed by one field_info with no attributes), matching
// ClassfileParser.parseFields's read order.
func fieldTableBytes(accessFlags uint16, nameIdx, descIdx uint16) []byte {
	return []byte{
		0x00, 0x01, // fields_count = 1
		byte(accessFlags >> 8), byte(accessFlags),
		byte(nameIdx >> 8), byte(nameIdx),
		byte(descIdx >> 8), byte(descIdx),
		0x00, 0x00, // attributes_count = 0
	}
}

func TestParseFieldsFinalSetsConstFlag(t *testing.T) {
	cp := newConstantPool(3)
	cp.set(1, ConstantPoolEntry{Tag: CPUtf8, Utf8: "x"})
	cp.set(2, ConstantPoolEntry{Tag: CPUtf8, Utf8: "I"})

	p := NewClassfileParser(fieldTableBytes(AccFinal, 1, 2), ParsePartial)
	fields := p.parseFields(cp)

	if len(fields) != 1 {
		t.Fatalf("got %d fields, want 1", len(fields))
	}
	f := fields[0]
	if f.AccessFlags&FlagConst == 0 {
		t.Errorf("final field AccessFlags=%#x missing FlagConst", f.AccessFlags)
	}
	if f.TypeSpelling != "const i32" {
		t.Errorf("final field TypeSpelling=%q, want %q", f.TypeSpelling, "const i32")
	}
}

func TestParseFieldsNonFinalLeavesConstFlagUnset(t *testing.T) {
	cp := newConstantPool(3)
	cp.set(1, ConstantPoolEntry{Tag: CPUtf8, Utf8: "x"})
	cp.set(2, ConstantPoolEntry{Tag: CPUtf8, Utf8: "I"})

	p := NewClassfileParser(fieldTableBytes(AccPublic, 1, 2), ParsePartial)
	fields := p.parseFields(cp)

	if fields[0].AccessFlags&FlagConst != 0 {
		t.Errorf("non-final field unexpectedly carries FlagConst")
	}
	if fields[0].TypeSpelling != "i32" {
		t.Errorf("non-final field TypeSpelling=%q, want %q", fields[0].TypeSpelling, "i32")
	}
}
