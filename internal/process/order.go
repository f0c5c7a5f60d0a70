package process

import "sort"

// Ordering holds the declaration-derived structures the reconciler rebuilds
// on every reparse.
type Ordering struct {
	// UngroupedOrder lists labels declared without a group, in file order.
	UngroupedOrder []string
	// Groups maps group name to its member labels, in file order.
	Groups map[string][]string
	// LaunchOrder is UngroupedOrder followed by each group's members,
	// groups taken in name-sort order.
	LaunchOrder []string
}

// BuildOrdering derives an Ordering from the ungrouped labels (already in
// file order) and the group membership map (each slice already in file
// order). LaunchOrder is a permutation of every label across both inputs.
func BuildOrdering(ungrouped []string, groups map[string][]string) Ordering {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	launchOrder := make([]string, 0, len(ungrouped))
	launchOrder = append(launchOrder, ungrouped...)
	for _, name := range names {
		launchOrder = append(launchOrder, groups[name]...)
	}

	return Ordering{
		UngroupedOrder: ungrouped,
		Groups:         groups,
		LaunchOrder:    launchOrder,
	}
}

// ShutdownOrder reverses a launch order: children are brought down in the
// exact reverse of the order they were brought up.
func ShutdownOrder(launchOrder []string) []string {
	rev := make([]string, len(launchOrder))
	for i, label := range launchOrder {
		rev[len(launchOrder)-1-i] = label
	}
	return rev
}

// SortedGroupNames returns the group names of groups in the order the sequencer
// processes them (group-name sort order).
func SortedGroupNames(groups map[string][]string) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
