package progress

import (
	"errors"
	"math"
	"testing"
)

func TestCheckAndReportScenario(t *testing.T) {
	a := New()
	if err := a.Register(3); err != nil {
		t.Fatal(err)
	}

	for want := uint32(1); want <= 3; want++ {
		if a.IsComplete() {
			t.Fatalf("tick %d: complete too early", want)
		}
		a.MarkDone(1)

		snap, ok := a.CheckAndReport()
		if !ok {
			t.Fatalf("tick %d: expected a report", want)
		}
		if snap.Done != want || snap.Total != 3 {
			t.Errorf("tick %d: unexpected snapshot %+v", want, snap)
		}

		if _, again := a.CheckAndReport(); again {
			t.Errorf("tick %d: increase reported twice", want)
		}
	}

	if !a.IsComplete() {
		t.Error("expected complete after 3/3")
	}
}

func TestCheckAndReportCoalescesIncreases(t *testing.T) {
	a := New()
	_ = a.Register(5)
	a.MarkDone(2)
	a.MarkDone(2)

	snap, ok := a.CheckAndReport()
	if !ok {
		t.Fatal("expected a report")
	}
	if snap.Done != 4 {
		t.Errorf("expected done 4, got %d", snap.Done)
	}
	if _, ok := a.CheckAndReport(); ok {
		t.Error("expected no report without an increase")
	}
}

func TestCheckAndReportNoIncrease(t *testing.T) {
	a := New()
	_ = a.Register(2)
	if _, ok := a.CheckAndReport(); ok {
		t.Error("expected no report at 0/2")
	}
	a.MarkDone(0)
	if _, ok := a.CheckAndReport(); ok {
		t.Error("expected no report after MarkDone(0)")
	}
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name     string
		policy   EmptyPolicy
		register []uint32
		done     []uint32
		want     bool
	}{
		{"nothing registered", EmptyNeverCompletes, nil, nil, false},
		{"nothing registered, empty completes", EmptyCompletes, nil, nil, true},
		{"registered zero", EmptyNeverCompletes, []uint32{0}, nil, false},
		{"partial", EmptyNeverCompletes, []uint32{3}, []uint32{2}, false},
		{"all done", EmptyNeverCompletes, []uint32{3}, []uint32{1, 2}, true},
		{"late registration reopens", EmptyNeverCompletes, []uint32{1, 1}, []uint32{1}, false},
		{"multiple collaborators", EmptyCompletes, []uint32{2, 3}, []uint32{4, 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(WithEmptyPolicy(tt.policy))
			for _, n := range tt.register {
				if err := a.Register(n); err != nil {
					t.Fatal(err)
				}
			}
			for _, n := range tt.done {
				a.MarkDone(n)
			}
			if got := a.IsComplete(); got != tt.want {
				t.Errorf("IsComplete() = %v, want %v (snapshot %s)", got, tt.want, a.Snapshot())
			}
		})
	}
}

func TestMarkDoneBeyondTotalPanics(t *testing.T) {
	a := New()
	_ = a.Register(1)
	a.MarkDone(1)

	defer func() {
		if recover() == nil {
			t.Error("expected panic when done exceeds total")
		}
	}()
	a.MarkDone(1)
}

func TestMarkDoneWithoutRegistrationPanics(t *testing.T) {
	a := New()
	defer func() {
		if recover() == nil {
			t.Error("expected panic when nothing is registered")
		}
	}()
	a.MarkDone(1)
}

func TestRegisterOverflowPanics(t *testing.T) {
	a := New()
	if err := a.Register(math.MaxUint32); err != nil {
		t.Fatal(err)
	}
	a.MarkDone(5)

	defer func() {
		if recover() == nil {
			t.Error("expected panic when the total overflows")
		}
		if snap := a.Snapshot(); snap.Total != math.MaxUint32 || snap.Done != 5 {
			t.Errorf("counters changed by rejected registration: %s", snap)
		}
	}()
	a.Register(2)
}

func TestSeal(t *testing.T) {
	a := New()
	_ = a.Register(2)
	a.MarkDone(2)
	a.Seal()

	if !a.Sealed() {
		t.Error("expected sealed")
	}
	if err := a.Register(1); !errors.Is(err, ErrSealed) {
		t.Errorf("expected ErrSealed, got %v", err)
	}
	if a.Snapshot().Total != 2 {
		t.Errorf("rejected registration changed total: %s", a.Snapshot())
	}
	if _, ok := a.CheckAndReport(); ok {
		t.Error("sealed aggregator must not report")
	}
}

func TestSnapshot(t *testing.T) {
	s := Snapshot{Done: 1, Total: 4}
	if s.Fraction() != 0.25 {
		t.Errorf("expected 0.25, got %f", s.Fraction())
	}
	if (Snapshot{}).Fraction() != 0 {
		t.Error("expected empty snapshot fraction 0")
	}
	if got := s.String(); got != "Progress { done: 1, total: 4 }" {
		t.Errorf("unexpected String() %q", got)
	}
}
