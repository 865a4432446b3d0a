package pjc

import (
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// assertGolden compares got against want with a readable diff on mismatch,
// grounded on run_test.go's diffmatchpatch.DiffMain/DiffPrettyText use for
// comparing generated output against an expected fixture.
func assertGolden(t *testing.T, got, want string) {
	t.Helper()
	if got == want {
		return
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(want, got, true)
	diffs = dmp.DiffCleanupSemantic(diffs)
	t.Errorf("generated output does not match golden (red = want, green = got):\n%s", dmp.DiffPrettyText(diffs))
}

func TestEmitterImplementationGolden(t *testing.T) {
	class := sampleClass("Counter", false)
	impl := string(NewEmitter(NewProject(), class).Implementation())

	want := `#include "Counter.h"


Counter::Counter()
{
}

void Counter::tick(i32 local_1)
{
    counter = counter + local_1;
}

`
	assertGolden(t, impl, want)
}
