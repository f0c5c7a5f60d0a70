package process

import "testing"

func TestChildState(t *testing.T) {
	cases := []struct {
		name  string
		start int64
		want  State
	}{
		{"pending launch", 100, PendingLaunch},
		{"running", 0, Running},
		{"pending removal", -1, PendingRemoval},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &Child{ScheduledStart: tc.start}
			if got := c.State(); got != tc.want {
				t.Errorf("State() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		PendingLaunch:  "pending-launch",
		Running:        "running",
		PendingRemoval: "pending-removal",
		State(99):      "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}

func TestTableGetPutDelete(t *testing.T) {
	table := NewTable()

	if _, ok := table.Get("web"); ok {
		t.Fatal("expected no entry in a fresh table")
	}

	table.Put(&Child{Label: "web", PID: 42})
	c, ok := table.Get("web")
	if !ok || c.PID != 42 {
		t.Fatalf("Get() = %+v, %v, want PID=42", c, ok)
	}

	if table.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", table.Len())
	}

	table.Delete("web")
	if _, ok := table.Get("web"); ok {
		t.Fatal("expected entry to be gone after Delete")
	}
	if table.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", table.Len())
	}
}

func TestTableLabels(t *testing.T) {
	table := NewTable()
	table.Put(&Child{Label: "a"})
	table.Put(&Child{Label: "b"})

	labels := table.Labels()
	if len(labels) != 2 {
		t.Fatalf("Labels() = %v, want 2 entries", labels)
	}
}

func TestTableFindByPID(t *testing.T) {
	table := NewTable()
	table.Put(&Child{Label: "web", PID: 1234})
	table.Put(&Child{Label: "worker", PID: 0})

	c, ok := table.FindByPID(1234)
	if !ok || c.Label != "web" {
		t.Fatalf("FindByPID(1234) = %+v, %v, want web", c, ok)
	}

	if _, ok := table.FindByPID(0); ok {
		t.Fatal("FindByPID(0) should never match the sentinel pid")
	}

	if _, ok := table.FindByPID(9999); ok {
		t.Fatal("FindByPID should not find an unknown pid")
	}
}
