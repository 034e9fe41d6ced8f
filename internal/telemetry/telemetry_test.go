package telemetry

import "testing"

func TestReporterNonBlockingWhenFull(t *testing.T) {
	r := NewReporter(2)
	for i := 0; i < 10; i++ {
		r.Report(0, Info, "tick")
	}
	if len(r.Events()) != 2 {
		t.Fatalf("expected buffer capped at 2, got %d", len(r.Events()))
	}
}

func TestReporterNilSafe(t *testing.T) {
	var r *Reporter
	r.Report(0, Warn, "should not panic")
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{Info: "info", Warn: "warn", Error: "error"}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Fatalf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}

func TestSnapshotReporterCopiesDiameter(t *testing.T) {
	r := NewSnapshotReporter(1)
	d := []float64{1, 2, 3}
	r.Publish(0, d, 0.1)
	d[0] = 999
	snap := <-r.Snapshots()
	if snap.Diameter[0] == 999 {
		t.Fatal("Publish did not copy the diameter slice")
	}
}

func TestSnapshotReporterNilSafe(t *testing.T) {
	var r *SnapshotReporter
	r.Publish(0, []float64{1}, 0)
}
