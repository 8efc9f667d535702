package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/erazemk/vozicek/internal/readiness"
)

// writeReport prints a plain-text readiness summary.
func writeReport(w io.Writer, r readiness.Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Readiness report for %s\n\n", readiness.FormatDate(r.Date))

	fmt.Fprintln(tw, "BUNDLE\tVERDICT\tMEMBERS\tBLOCKERS\tADVISORIES")
	for _, b := range r.Bundles {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
			b.Bundle, b.Verdict, b.Members, list(b.Blockers), list(b.Advisories))
	}
	if len(r.Bundles) == 0 {
		fmt.Fprintln(tw, "(no bundles)")
	}

	fmt.Fprintf(tw, "\nEquipment: %s (%d ready, %d borrowed, %d not ready, %d unchecked of %d)\n",
		r.Fleet.Verdict, r.Fleet.Ready, r.Fleet.Borrowed, r.Fleet.NotReady, r.Fleet.Unchecked, r.Fleet.Total)
	if len(r.Fleet.Blocking) > 0 {
		fmt.Fprintf(tw, "Blocking: %s\n", list(r.Fleet.Blocking))
	}

	c := r.Counts
	fmt.Fprintln(tw, "\nALERT\tCOUNT\tITEMS")
	rows := []struct {
		label string
		n     int
		items []readiness.ClassifiedItem
	}{
		{"expired", c.Expired, r.Alerts.Expired},
		{"expiring soon", c.ExpiringSoon, r.Alerts.ExpiringSoon},
		{"out of stock", c.OutOfStock, r.Alerts.OutOfStock},
		{"low stock", c.LowStock, r.Alerts.LowStock},
		{"ETT exchange overdue", c.ExchangeOverdue, r.Alerts.ExchangeOverdue},
		{"ETT exchange due soon", c.ExchangeDueSoon, r.Alerts.ExchangeDueSoon},
	}
	for _, row := range rows {
		names := make([]string, len(row.items))
		for i, it := range row.items {
			names[i] = it.Name
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", row.label, row.n, list(names))
	}

	if r.Warnings.Total() > 0 {
		fmt.Fprintf(tw, "\nUnreadable values: %d dates, %d stock counts (e.g. %s)\n",
			r.Warnings.MalformedDates, r.Warnings.MalformedStock, list(r.Warnings.Samples))
	}

	return tw.Flush()
}

func list(s []string) string {
	if len(s) == 0 {
		return "-"
	}
	return strings.Join(s, ", ")
}
