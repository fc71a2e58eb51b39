package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/klauern/msgsync/internal/sync"
)

func markdownDiff(diff sync.Diff) string {
	var sb strings.Builder

	sb.WriteString("# Diff\n\n")
	sb.WriteString(fmt.Sprintf("Total: %d change(s)\n\n", diff.Total()))
	sb.WriteString("| Set | Count | IDs |\n")
	sb.WriteString("|-----|-------|-----|\n")
	writeIDRow(&sb, "Added", diff.Added)
	writeIDRow(&sb, "Modified", diff.Modified)
	writeIDRow(&sb, "Deleted", diff.Deleted)

	return sb.String()
}

func writeIDRow(sb *strings.Builder, label string, ids []int) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	sb.WriteString(fmt.Sprintf("| %s | %d | %s |\n", label, len(ids), strings.Join(parts, ", ")))
}

func markdownStats(stats sync.Stats) string {
	var sb strings.Builder

	sb.WriteString("# Stats\n\n")
	sb.WriteString("| Property | Value |\n")
	sb.WriteString("|----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Local | %d |\n", stats.LocalCount))
	sb.WriteString(fmt.Sprintf("| Remote | %d |\n", stats.RemoteCount))
	sb.WriteString(fmt.Sprintf("| Conflicts | %d |\n", stats.Conflicts))

	return sb.String()
}

func markdownResolution(res sync.Resolution) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# Resolution for %d\n\n", res.ID))
	if !res.Resolved {
		sb.WriteString("*Unresolved: the id is missing from at least one store.*\n")
		return sb.String()
	}

	sb.WriteString("| Property | Value |\n")
	sb.WriteString("|----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Winner | %s |\n", res.WinningSide()))
	sb.WriteString(fmt.Sprintf("| Local timestamp | %d |\n", res.LocalTimestamp))
	sb.WriteString(fmt.Sprintf("| Remote timestamp | %d |\n", res.RemoteTimestamp))
	sb.WriteString("\n")
	writeContentBlock(&sb, res.Winner)

	return sb.String()
}

func markdownPlan(plan *sync.Plan) string {
	var sb strings.Builder

	sb.WriteString("# Sync Plan\n\n")
	sb.WriteString(fmt.Sprintf("Run: `%s`\n\n", plan.RunID))
	sb.WriteString("| Action | Count |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Pull | %d |\n", len(plan.Pulls())))
	sb.WriteString(fmt.Sprintf("| Patch | %d |\n", len(plan.Patches())))
	sb.WriteString(fmt.Sprintf("| Keep | %d |\n", len(plan.Keeps())))
	sb.WriteString(fmt.Sprintf("| Delete | %d |\n", len(plan.Deletes())))

	if plan.IsEmpty() {
		sb.WriteString("\n*Stores are in sync.*\n")
		return sb.String()
	}

	sb.WriteString("\n## Changes\n\n")
	sb.WriteString("| ID | Kind | Action | Detail |\n")
	sb.WriteString("|----|------|--------|--------|\n")
	for _, c := range plan.Changes {
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s |\n", c.ID, c.Kind, c.Action, changeDetail(c)))
	}

	return sb.String()
}

func changeDetail(c sync.Change) string {
	var parts []string
	if c.Delta != "" {
		parts = append(parts, fmt.Sprintf("delta `%s`", escapeCell(c.Delta)))
	}
	if c.Resolution != nil {
		parts = append(parts, fmt.Sprintf("%s wins", c.Resolution.WinningSide()))
	}
	if c.Comparison != nil {
		parts = append(parts, fmt.Sprintf("%.0f%% similar", c.Comparison.Ratio*100))
	}
	return strings.Join(parts, ", ")
}

func markdownApplyResult(result *sync.ApplyResult) string {
	var sb strings.Builder

	sb.WriteString("# Apply Result\n\n")
	sb.WriteString(fmt.Sprintf("Run: `%s`\n\n", result.RunID))
	sb.WriteString(fmt.Sprintf("Applied %d of %d change(s)", len(result.Outcomes)-len(result.Failed()), len(result.Outcomes)))
	if n := len(result.Refetched()); n > 0 {
		sb.WriteString(fmt.Sprintf(", %d refetched", n))
	}
	sb.WriteString("\n")

	if failed := result.Failed(); len(failed) > 0 {
		sb.WriteString("\n## Errors\n\n")
		for _, o := range failed {
			sb.WriteString(fmt.Sprintf("- %d (%s): %v\n", o.ID, o.Action, o.Error))
		}
	}

	return sb.String()
}

func writeContentBlock(sb *strings.Builder, content string) {
	if strings.TrimSpace(content) == "" {
		sb.WriteString("*No content*\n")
		return
	}
	sb.WriteString("```\n")
	sb.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		sb.WriteString("\n")
	}
	sb.WriteString("```\n")
}

// escapeCell keeps table cells on one row.
func escapeCell(s string) string {
	r := strings.NewReplacer("|", `\|`, "\n", `\n`, "`", "'")
	return r.Replace(s)
}
