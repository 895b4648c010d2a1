package history_test

import (
	"fmt"
	"testing"

	"cutroom/internal/history"
)

func record(n int) history.Record {
	rec := history.NewRecord(history.ClipUpdate)
	rec.ID = fmt.Sprintf("rec-%d", n)
	return rec
}

func TestUndoAtHeadIsNoop(t *testing.T) {
	log := history.NewLog(10)
	if _, ok := log.Undo(); ok {
		t.Fatal("undo on empty log should be a no-op")
	}
	if log.Cursor() != -1 {
		t.Fatalf("cursor should stay at -1, got %d", log.Cursor())
	}
}

func TestRedoAtTailIsNoop(t *testing.T) {
	log := history.NewLog(10)
	log.Append(record(1))
	if _, ok := log.Redo(); ok {
		t.Fatal("redo at tail should be a no-op")
	}
}

func TestUndoRedoMovesCursor(t *testing.T) {
	log := history.NewLog(10)
	log.Append(record(1))
	log.Append(record(2))

	rec, ok := log.Undo()
	if !ok || rec.ID != "rec-2" {
		t.Fatalf("expected rec-2 from undo, got %v ok=%v", rec.ID, ok)
	}
	rec, ok = log.Undo()
	if !ok || rec.ID != "rec-1" {
		t.Fatalf("expected rec-1 from undo, got %v ok=%v", rec.ID, ok)
	}
	if log.CanUndo() {
		t.Fatal("expected head after two undos")
	}

	rec, ok = log.Redo()
	if !ok || rec.ID != "rec-1" {
		t.Fatalf("expected rec-1 from redo, got %v ok=%v", rec.ID, ok)
	}
	rec, ok = log.Redo()
	if !ok || rec.ID != "rec-2" {
		t.Fatalf("expected rec-2 from redo, got %v ok=%v", rec.ID, ok)
	}
	if log.CanRedo() {
		t.Fatal("expected tail after two redos")
	}
}

func TestAppendAfterUndoDiscardsRedoTail(t *testing.T) {
	log := history.NewLog(10)
	log.Append(record(1))
	log.Append(record(2))
	log.Append(record(3))
	log.Undo()
	log.Undo()

	log.Append(record(4))
	if log.Len() != 2 {
		t.Fatalf("expected tail discarded, log has %d entries", log.Len())
	}
	if log.CanRedo() {
		t.Fatal("new append should leave nothing to redo")
	}
	rec, _ := log.Undo()
	if rec.ID != "rec-4" {
		t.Fatalf("expected rec-4 as newest entry, got %v", rec.ID)
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	log := history.NewLog(3)
	for i := 1; i <= 5; i++ {
		log.Append(record(i))
	}
	if log.Len() != 3 {
		t.Fatalf("expected capacity 3, got %d entries", log.Len())
	}

	var ids []string
	for {
		rec, ok := log.Undo()
		if !ok {
			break
		}
		ids = append(ids, rec.ID)
	}
	want := []string{"rec-5", "rec-4", "rec-3"}
	for i, id := range want {
		if ids[i] != id {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestZeroCapacityFallsBackToDefault(t *testing.T) {
	log := history.NewLog(0)
	for i := 0; i < history.DefaultCapacity+10; i++ {
		log.Append(record(i))
	}
	if log.Len() != history.DefaultCapacity {
		t.Fatalf("expected default capacity %d, got %d", history.DefaultCapacity, log.Len())
	}
}
