package pool

import "testing"

func TestFillProducesSequentialIDs(t *testing.T) {
	p := New()
	p.Fill(3)

	var got []int
	for {
		task, ok := p.Pop()
		if !ok {
			break
		}
		got = append(got, task.AgentID)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(got))
	}
	seen := map[int]bool{}
	for _, id := range got {
		seen[id] = true
	}
	for id := 0; id < 3; id++ {
		if !seen[id] {
			t.Errorf("missing agent id %d", id)
		}
	}
}

func TestPopOnEmptyPool(t *testing.T) {
	p := New()
	if _, ok := p.Pop(); ok {
		t.Fatal("expected ok=false on empty pool")
	}
}

func TestClearEmptiesPool(t *testing.T) {
	p := New()
	p.Fill(5)
	p.Clear()
	if !p.IsEmpty() {
		t.Fatal("expected pool to be empty after Clear")
	}
}

func TestFillResetsPreviousContents(t *testing.T) {
	p := New()
	p.Fill(10)
	p.Fill(2)
	count := 0
	for {
		if _, ok := p.Pop(); !ok {
			break
		}
		count++
	}
	if count != 2 {
		t.Fatalf("expected 2 tasks after re-Fill, got %d", count)
	}
}
