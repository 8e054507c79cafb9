package pulse

import "testing"

func TestScheduleDefaultDelayIsNextTick(t *testing.T) {
	q := NewQueue()
	q.Schedule(5, "O0", 1.0, 0) // delay<1 clamps to 1
	due := q.Drain(6)
	if len(due) != 1 {
		t.Fatalf("expected 1 delivery at tick 6, got %d", len(due))
	}
	if due[0].Target != "O0" || due[0].Value != 1.0 {
		t.Errorf("unexpected delivery %+v", due[0])
	}
	if len(q.Drain(6)) != 0 {
		t.Errorf("Drain should remove delivered entries")
	}
}

func TestScheduleMultiTickDelay(t *testing.T) {
	q := NewQueue()
	q.Schedule(0, "N1", 2.0, 3)
	if due := q.Drain(1); len(due) != 0 {
		t.Errorf("expected nothing due at tick 1, got %d", len(due))
	}
	if due := q.Drain(3); len(due) != 1 {
		t.Errorf("expected 1 delivery due at tick 3, got %d", len(due))
	}
}
