package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/sibexico/pagesim/paging"
)

func displayName(kind paging.PolicyKind) string {
	switch kind {
	case paging.FIFO:
		return "FIFO"
	case paging.LRU:
		return "LRU"
	case paging.Optimal:
		return "Optimal"
	case paging.LFU:
		return "LFU"
	case paging.Clock:
		return "Clock"
	default:
		return kind.String()
	}
}

func printAddressStream(w io.Writer, stream *paging.ReferenceStream) {
	fmt.Fprintf(w, "Total Addresses Read: %d\n", stream.Len())
	fmt.Fprintf(w, "Distinct Pages: %d (page size %d)\n", stream.DistinctPages(), stream.PageSize())

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tADDRESS\tPAGE\tOFFSET")
	for i := 0; i < stream.Len(); i++ {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\n", i, stream.Address(i), stream.Page(i), stream.Offset(i))
	}
	tw.Flush()
}

func printPolicyHeader(w io.Writer, kind paging.PolicyKind) {
	fmt.Fprintf(w, "\n--- %s Page Replacement ---\n", displayName(kind))
}

func printStep(w io.Writer, step paging.Step) {
	marker := " "
	if step.Fault {
		marker = "*"
	}
	fmt.Fprintf(w, "Frame Table - %s %s\n", step.Snapshot, marker)
}

func printFaults(w io.Writer, r *paging.Result) {
	fmt.Fprintf(w, "%s Page Faults: %d\n", displayName(r.Policy), r.Faults)
}

func printComparison(w io.Writer, results []*paging.Result) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POLICY\tFRAMES\tFAULTS\tHITS\tEVICTIONS\tHIT RATIO")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.2f\n",
			displayName(r.Policy), r.Frames, r.Faults, r.Hits, r.Evictions, r.HitRatio())
	}
	tw.Flush()
}

func printSweep(w io.Writer, kind paging.PolicyKind, points []paging.SweepPoint) {
	fmt.Fprintf(w, "\n--- %s Capacity Sweep ---\n", displayName(kind))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FRAMES\tFAULTS")
	for _, p := range points {
		fmt.Fprintf(tw, "%d\t%d\n", p.Frames, p.Faults)
	}
	tw.Flush()

	anomalies := paging.FindAnomalies(points)
	if len(anomalies) == 0 {
		fmt.Fprintln(w, "No Belady's anomaly in this range")
		return
	}
	for _, a := range anomalies {
		fmt.Fprintf(w, "Belady's anomaly: %d frames -> %d faults, %d frames -> %d faults\n",
			a.Before.Frames, a.Before.Faults, a.After.Frames, a.After.Faults)
	}
}
