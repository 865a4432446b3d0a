package pjc

import (
	"testing"

	"golang.org/x/tools/txtar"
)

// Fixture bundles keep an expected header/implementation pair in one named
// archive; the handwritten Class/Method literal that produces them is
// sampleClass in emit_test.go, not part of the archive. This follows
// google-kati's table-driven style extended to multi-file fixtures —
// grounded on SPEC_FULL.md's test-tooling note that txtar is the pack's
// sub-package fit for bundling many small named text blobs into one fixture
// file.
const counterFixture = `-- Counter.h --
#ifndef COUNTER_H
#define COUNTER_H

#include "board_shim.h"
#ifdef HAS_RESOURCES
#include "resources.h"
#endif
#ifdef HAS_USER_FILE
#include "user.h"
#endif

class Counter {
public:
    Counter();
    void tick(i32 local_1);

private:
    static i32 counter;
};

#endif // COUNTER_H
-- Counter.cpp --
#include "Counter.h"


Counter::Counter()
{
}

void Counter::tick(i32 local_1)
{
    counter = counter + local_1;
}

`

func fixtureFile(t *testing.T, archive *txtar.Archive, name string) string {
	t.Helper()
	for _, f := range archive.Files {
		if f.Name == name {
			return string(f.Data)
		}
	}
	t.Fatalf("fixture archive missing file %q", name)
	return ""
}

func TestEmitterAgainstFixtureArchive(t *testing.T) {
	archive := txtar.Parse([]byte(counterFixture))
	class := sampleClass("Counter", false)
	e := NewEmitter(NewProject(), class)

	assertGolden(t, string(e.Header()), fixtureFile(t, archive, "Counter.h"))
	assertGolden(t, string(e.Implementation()), fixtureFile(t, archive, "Counter.cpp"))
}
