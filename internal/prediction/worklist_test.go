package prediction

import (
	"testing"
)

func snap(id int64, fill, battery int) Snapshot {
	return Snapshot{UniqueID: id, FillPercent: fill, Battery: battery}
}

func ids(work []Snapshot) []int64 {
	out := make([]int64, len(work))
	for i, s := range work {
		out[i] = s.UniqueID
	}
	return out
}

// TestBuildWorkListFiltersDisabled verifies both filters off yields an empty
// list no matter the device state.
func TestBuildWorkListFiltersDisabled(t *testing.T) {
	devices := []Snapshot{
		snap(1, 95, 5), // full and low battery
		snap(2, 80, 10),
	}
	due := map[int64]bool{1: true, 2: true}

	work := BuildWorkList(devices, due, Filters{})
	if len(work) != 0 {
		t.Errorf("expected empty work list, got %v", ids(work))
	}
}

// TestBuildWorkListBothReasons verifies the spec scenario: bin_height=100,
// raw=20 (level 80), battery 15, both filters on -> device qualifies for
// both service actions.
func TestBuildWorkListBothReasons(t *testing.T) {
	a := snap(1, 80, 15)
	filters := Filters{ChangeBattery: true, EmptyBin: true}

	work := BuildWorkList([]Snapshot{a}, nil, filters)
	if len(work) != 1 || work[0].UniqueID != 1 {
		t.Fatalf("expected device 1 on work list, got %v", ids(work))
	}

	reasons := Reasons(a, nil, filters)
	if !reasons.EmptyBin {
		t.Error("level 80 should need emptying")
	}
	if !reasons.ChangeBattery {
		t.Error("battery 15 should need a change")
	}
}

// TestBuildWorkListFilterSelectivity verifies each filter gates only its own
// issue class.
func TestBuildWorkListFilterSelectivity(t *testing.T) {
	devices := []Snapshot{
		snap(1, 90, 80), // full only
		snap(2, 30, 10), // low battery only
	}

	work := BuildWorkList(devices, nil, Filters{EmptyBin: true})
	if got := ids(work); len(got) != 1 || got[0] != 1 {
		t.Errorf("emptyBin only: got %v, want [1]", got)
	}

	work = BuildWorkList(devices, nil, Filters{ChangeBattery: true})
	if got := ids(work); len(got) != 1 || got[0] != 2 {
		t.Errorf("changeBattery only: got %v, want [2]", got)
	}
}

// TestBuildWorkListMergeOrder verifies issue devices keep backend order and
// come before predicted-due devices, deduplicated by id.
func TestBuildWorkListMergeOrder(t *testing.T) {
	devices := []Snapshot{
		snap(1, 40, 90), // due only
		snap(2, 85, 90), // issue (full) and also due
		snap(3, 20, 10), // issue (battery)
		snap(4, 50, 90), // due only
		snap(5, 30, 90), // nothing
	}
	due := map[int64]bool{1: true, 2: true, 4: true}
	filters := Filters{ChangeBattery: true, EmptyBin: true}

	work := BuildWorkList(devices, due, filters)
	got := ids(work)
	want := []int64{2, 3, 1, 4}
	if len(got) != len(want) {
		t.Fatalf("work list = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("work list = %v, want %v", got, want)
		}
	}
}

// TestBuildWorkListDueNeedsEmptyBinFilter verifies predicted-due devices are
// only pulled in when the empty-bin action is selected.
func TestBuildWorkListDueNeedsEmptyBinFilter(t *testing.T) {
	devices := []Snapshot{snap(1, 40, 90)}
	due := map[int64]bool{1: true}

	work := BuildWorkList(devices, due, Filters{ChangeBattery: true})
	if len(work) != 0 {
		t.Errorf("due device pulled in without emptyBin filter: %v", ids(work))
	}

	work = BuildWorkList(devices, due, Filters{EmptyBin: true})
	if len(work) != 1 {
		t.Errorf("due device missing with emptyBin filter: %v", ids(work))
	}
}

// TestReasonsPredictedDue verifies a predicted-due device is marked for
// emptying even below the full threshold.
func TestReasonsPredictedDue(t *testing.T) {
	d := snap(1, 55, 90)
	due := map[int64]bool{1: true}

	reasons := Reasons(d, due, Filters{EmptyBin: true})
	if !reasons.EmptyBin {
		t.Error("predicted-due device should need emptying")
	}
	if reasons.ChangeBattery {
		t.Error("battery filter off, no battery action expected")
	}
}
