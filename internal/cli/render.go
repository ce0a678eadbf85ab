// Package cli renders reconciliation plans for human review and holds the
// confirmation gate that stands between a plan and its execution.
package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/yuriy-kovalchuk/yk-tunnel-dns/internal/reconcile"
)

// RenderPlan writes the action table and every conflict to out. It is called
// before any mutation so the full plan is visible at the confirmation gate.
func RenderPlan(out io.Writer, actions []reconcile.Action, conflicts []reconcile.Conflict) {
	if len(actions) == 0 {
		fmt.Fprintln(out, "No DNS changes required.")
	} else {
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"ACTION", "HOSTNAME", "TUNNEL", "REASON"})
		for _, action := range actions {
			t.AppendRow(table.Row{string(action.Kind), action.Hostname, tunnelColumn(action), action.Reason})
		}
		t.Render()
	}

	for _, conflict := range conflicts {
		fmt.Fprintf(out, "%s %s: %s\n",
			text.FgYellow.Sprintf("conflict[%s]", conflict.Kind),
			conflict.Hostname,
			conflict.Detail,
		)
	}
}

// RenderApplyResult summarizes how many planned actions went through.
func RenderApplyResult(out io.Writer, applied, planned int) {
	if applied == planned {
		fmt.Fprintf(out, "Applied %d of %d actions.\n", applied, planned)
		return
	}
	fmt.Fprintf(out, "%s\n", text.FgRed.Sprintf("Applied %d of %d actions, %d failed.", applied, planned, planned-applied))
}

func tunnelColumn(action reconcile.Action) string {
	switch action.Kind {
	case reconcile.ActionUpdate:
		return fmt.Sprintf("%s -> %s", action.FromTunnelID, action.TunnelID)
	case reconcile.ActionDelete:
		return fmt.Sprintf("%s (stale)", action.TunnelID)
	default:
		return action.TunnelID
	}
}
