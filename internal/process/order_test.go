package process

import (
	"reflect"
	"testing"
)

func TestBuildOrderingUngroupedOnly(t *testing.T) {
	o := BuildOrdering([]string{"a", "b", "c"}, map[string][]string{})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(o.LaunchOrder, want) {
		t.Errorf("LaunchOrder = %v, want %v", o.LaunchOrder, want)
	}
}

func TestBuildOrderingGroupsSortedByName(t *testing.T) {
	// Ungrouped A, groups Grp2={X}, Grp1={Y}: launch order is
	// [A, Y, X] (Grp1 sorts before Grp2).
	o := BuildOrdering([]string{"A"}, map[string][]string{
		"Grp2": {"X"},
		"Grp1": {"Y"},
	})
	want := []string{"A", "Y", "X"}
	if !reflect.DeepEqual(o.LaunchOrder, want) {
		t.Errorf("LaunchOrder = %v, want %v", o.LaunchOrder, want)
	}
}

func TestShutdownOrderIsExactReverse(t *testing.T) {
	launch := []string{"A", "Y", "X"}
	got := ShutdownOrder(launch)
	want := []string{"X", "Y", "A"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ShutdownOrder(%v) = %v, want %v", launch, got, want)
	}
	// Original slice must be untouched.
	if !reflect.DeepEqual(launch, []string{"A", "Y", "X"}) {
		t.Errorf("ShutdownOrder mutated its input: %v", launch)
	}
}

func TestSortedGroupNames(t *testing.T) {
	got := SortedGroupNames(map[string][]string{"b": nil, "a": nil, "c": nil})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SortedGroupNames = %v, want %v", got, want)
	}
}

func TestLaunchOrderIsPermutation(t *testing.T) {
	ungrouped := []string{"a", "b"}
	groups := map[string][]string{"g1": {"c"}, "g2": {"d", "e"}}
	o := BuildOrdering(ungrouped, groups)

	seen := make(map[string]bool)
	for _, l := range o.LaunchOrder {
		if seen[l] {
			t.Fatalf("label %q appears twice in LaunchOrder %v", l, o.LaunchOrder)
		}
		seen[l] = true
	}
	if len(o.LaunchOrder) != 5 {
		t.Fatalf("LaunchOrder has %d entries, want 5: %v", len(o.LaunchOrder), o.LaunchOrder)
	}
	if !reflect.DeepEqual(o.LaunchOrder[:2], ungrouped) {
		t.Errorf("first entries = %v, want ungrouped order %v", o.LaunchOrder[:2], ungrouped)
	}
}
