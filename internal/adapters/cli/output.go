package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/andrescamacho/geode-planner/internal/application/planning"
	"github.com/andrescamacho/geode-planner/internal/domain/production"
)

func printOutcomes(w io.Writer, resp *planning.EvaluateBlueprintsResponse) {
	fmt.Fprintf(w, "Run %s (%s)\n", resp.RunID, resp.Policy)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Blueprint\tHorizon\tEager\tGeodes\tExplored\tPruned\tDuration\tNote")
	fmt.Fprintln(tw, "─────────\t───────\t─────\t──────\t────────\t──────\t────────\t────")
	for _, o := range resp.Outcomes {
		fmt.Fprintf(tw, "%d\t%d\t%t\t%d\t%d\t%d\t%s\t%s\n",
			o.Result.BlueprintID,
			o.Result.Horizon,
			o.Result.Eager,
			o.Result.MaxGeodes,
			o.Result.Explored,
			o.Result.Pruned,
			o.Duration.Round(time.Millisecond),
			resultNote(o.Result),
		)
	}
	tw.Flush()
}

func resultNote(res *production.SearchResult) string {
	switch {
	case res.Warning != nil:
		return res.Warning.Error()
	case res.Truncated:
		return "truncated"
	default:
		return ""
	}
}

func printRunRecords(w io.Writer, records []*production.RunRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Created\tRun\tPolicy\tBlueprint\tHorizon\tEager\tGeodes\tExplored\tTruncated")
	fmt.Fprintln(tw, "───────\t───\t──────\t─────────\t───────\t─────\t──────\t────────\t─────────")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%t\t%d\t%d\t%t\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.RunID,
			r.Policy,
			r.BlueprintID,
			r.Horizon,
			r.Eager,
			r.MaxGeodes,
			r.Explored,
			r.Truncated,
		)
	}
	tw.Flush()
}
