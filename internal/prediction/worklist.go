package prediction

// Thresholds for issue detection on the current device snapshot.
const (
	BatteryLowThreshold = 25 // battery below this needs a change
	FullThreshold       = 80 // fill percent at or above this needs emptying
)

// Filters are the operator-selected service actions for a planning session.
type Filters struct {
	ChangeBattery bool `json:"change_battery"`
	EmptyBin      bool `json:"empty_bin"`
}

// WorkReasons says why a device is on the work list.
type WorkReasons struct {
	EmptyBin      bool `json:"empty_bin"`
	ChangeBattery bool `json:"change_battery"`
}

// Reasons reports the service actions a device needs under the given
// filters. Predicted-due devices count as needing emptying even when the
// current level is still below the full threshold.
func Reasons(s Snapshot, due map[int64]bool, f Filters) WorkReasons {
	return WorkReasons{
		EmptyBin:      f.EmptyBin && (s.FillPercent >= FullThreshold || due[s.UniqueID]),
		ChangeBattery: f.ChangeBattery && s.Battery < BatteryLowThreshold,
	}
}

// BuildWorkList selects the devices needing service. A device qualifies when
// the battery filter is on and its battery is low, or the empty-bin filter
// is on and it is either already full or predicted due for pickup.
//
// Ordering preserves the input (backend) order, with devices showing a
// current issue ahead of devices that are only predicted due; duplicates are
// removed keeping the issue entry.
func BuildWorkList(devices []Snapshot, due map[int64]bool, f Filters) []Snapshot {
	var withIssues []Snapshot
	seen := make(map[int64]bool)
	for _, d := range devices {
		needsBattery := f.ChangeBattery && d.Battery < BatteryLowThreshold
		needsEmptying := f.EmptyBin && d.FillPercent >= FullThreshold
		if needsBattery || needsEmptying {
			withIssues = append(withIssues, d)
			seen[d.UniqueID] = true
		}
	}

	work := withIssues
	if f.EmptyBin {
		for _, d := range devices {
			if due[d.UniqueID] && !seen[d.UniqueID] {
				work = append(work, d)
				seen[d.UniqueID] = true
			}
		}
	}
	return work
}
