package state

import "testing"

func TestMarkConstOverwritesCopy(t *testing.T) {
	tbl := New(4)
	tbl.MarkCopy(1, 0)
	tbl.MarkConst(1, 7)

	if tbl.Kind(1) != Const || tbl.Value(1) != 7 {
		t.Fatalf("temp 1: got kind=%v val=%v, want Const/7", tbl.Kind(1), tbl.Value(1))
	}
	if tbl.Kind(0) != Undef {
		t.Fatalf("temp 0 should have lost its class (a one-member class is not kept), got %v", tbl.Kind(0))
	}
}

func TestMarkCopyBuildsClass(t *testing.T) {
	tbl := New(4)
	tbl.MarkCopy(1, 0)
	tbl.MarkCopy(2, 1)

	if !tbl.AreCopies(0, 2) {
		t.Fatal("0 and 2 should be transitively in the same copy class")
	}
	if !tbl.AreCopies(1, 2) {
		t.Fatal("1 and 2 should be copies")
	}
	if tbl.AreCopies(0, 3) {
		t.Fatal("3 was never joined to the class")
	}
}

func TestMarkCopyPanicsOnConstSource(t *testing.T) {
	tbl := New(2)
	tbl.MarkConst(0, 5)

	defer func() {
		if recover() == nil {
			t.Fatal("MarkCopy(dst, const-src) should panic")
		}
	}()
	tbl.MarkCopy(1, 0)
}

func TestResetSingletonClassCollapses(t *testing.T) {
	tbl := New(4)
	tbl.MarkCopy(1, 0)
	tbl.Reset(1)

	if tbl.Kind(0) != Undef {
		t.Fatalf("resetting the only other member of a 2-member class should collapse the peer, got %v", tbl.Kind(0))
	}
}

func TestResetSplicesOutOfLargerClass(t *testing.T) {
	tbl := New(4)
	tbl.MarkCopy(1, 0)
	tbl.MarkCopy(2, 1)
	tbl.Reset(1)

	if tbl.Kind(1) != Undef {
		t.Fatalf("temp 1 should be Undef after reset, got %v", tbl.Kind(1))
	}
	if !tbl.AreCopies(0, 2) {
		t.Fatal("0 and 2 should remain copies after 1 is spliced out")
	}
}

func TestFindBetterPrefersGlobal(t *testing.T) {
	// temps: 0 = global, 1 = local, 2 = anon
	tbl := New(3)
	isLocal := func(t int) bool { return t == 1 }
	tbl.MarkCopy(1, 0)
	tbl.MarkCopy(2, 1)

	if got := tbl.FindBetter(2, 1, isLocal); got != 0 {
		t.Fatalf("FindBetter(2) = %d, want the global 0", got)
	}
}

func TestFindBetterPrefersLocalOverAnon(t *testing.T) {
	tbl := New(3)
	isLocal := func(t int) bool { return t == 1 }
	tbl.MarkCopy(2, 1)

	if got := tbl.FindBetter(2, 0, isLocal); got != 1 {
		t.Fatalf("FindBetter(2) = %d, want the local 1", got)
	}
}

func TestResetAllClearsEverything(t *testing.T) {
	tbl := New(3)
	tbl.MarkConst(0, 1)
	tbl.MarkCopy(2, 1)
	tbl.ResetAll()

	for i := 0; i < 3; i++ {
		if tbl.Kind(i) != Undef {
			t.Fatalf("temp %d not cleared by ResetAll: %v", i, tbl.Kind(i))
		}
	}
}

func TestResetGlobalsLeavesLocalsAlone(t *testing.T) {
	tbl := New(3) // temp 0 is the only global
	tbl.MarkConst(0, 1)
	tbl.MarkConst(1, 2)
	tbl.ResetGlobals(1)

	if tbl.Kind(0) != Undef {
		t.Fatal("global 0 should be reset")
	}
	if tbl.Kind(1) != Const {
		t.Fatal("non-global 1 should be untouched")
	}
}

func TestAreCopiesSameTempIsTrivial(t *testing.T) {
	tbl := New(2)
	if !tbl.AreCopies(0, 0) {
		t.Fatal("a temp is always a copy of itself")
	}
}
