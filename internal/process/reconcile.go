package process

import (
	"strings"

	"github.com/metasysd/metasys/internal/config"
)

// Reconcile applies a freshly parsed set of child declarations to the
// process table. For each declared label it creates a new
// pending-launch record, or updates the command and forces an
// immediate relaunch if the command changed; any table entry whose
// label is no longer declared is marked pending-removal. The returned
// Ordering reflects the declarations exactly as given (file order
// preserved for ungrouped entries and within each group).
//
// Reconcile never removes a label because of a parse error: only the
// label's absence from a successfully parsed decls list does that.
func Reconcile(table *Table, decls []config.ChildDecl, now int64) Ordering {
	declared := make(map[string]bool, len(decls))
	var ungrouped []string
	groups := make(map[string][]string)

	for _, decl := range decls {
		declared[decl.Label] = true
		command := TokenizeCommand(decl.Command)

		existing, ok := table.Get(decl.Label)
		switch {
		case !ok:
			table.Put(&Child{
				Label:          decl.Label,
				Command:        command,
				Group:          decl.Group,
				ScheduledStart: now,
			})
		case !equalCommand(existing.Command, command):
			existing.Command = command
			existing.Group = decl.Group
			existing.ScheduledStart = now
		default:
			existing.Group = decl.Group
		}

		if decl.Group == "" {
			ungrouped = append(ungrouped, decl.Label)
		} else {
			groups[decl.Group] = append(groups[decl.Group], decl.Label)
		}
	}

	for _, label := range table.Labels() {
		if !declared[label] {
			c, _ := table.Get(label)
			c.ScheduledStart = -1
		}
	}

	return BuildOrdering(ungrouped, groups)
}

// TokenizeCommand is Tokenize under the name the reconciler calls it
// by; kept as a thin alias so callers reading reconcile.go don't need
// to cross-reference launch.go to see what "tokenize the command"
// means here.
func TokenizeCommand(command string) []string {
	return Tokenize(command)
}

func equalCommand(a, b []string) bool {
	return strings.Join(a, "\x00") == strings.Join(b, "\x00")
}
