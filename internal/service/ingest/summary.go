package ingest

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
)

const (
	maxSkippedRows   = 5
	maxErrorMessage  = 100
	truncationSuffix = "..."
)

type EntityStats struct {
	Created  int `json:"created"`
	Existing int `json:"existing"`
}

func (e *EntityStats) count(created bool) {
	if created {
		e.Created++
		return
	}
	e.Existing++
}

func (e *EntityStats) add(o EntityStats) {
	e.Created += o.Created
	e.Existing += o.Existing
}

type Counts struct {
	Companies     EntityStats `json:"companies"`
	Directors     EntityStats `json:"directors"`
	Remunerations EntityStats `json:"remunerations"`
	Financials    EntityStats `json:"financials"`
	Peers         EntityStats `json:"peers"`
}

func (c *Counts) add(o Counts) {
	c.Companies.add(o.Companies)
	c.Directors.add(o.Directors)
	c.Remunerations.add(o.Remunerations)
	c.Financials.add(o.Financials)
	c.Peers.add(o.Peers)
}

// Created returns the number of records inserted across all entities.
func (c Counts) Created() int {
	return c.Companies.Created + c.Directors.Created + c.Remunerations.Created +
		c.Financials.Created + c.Peers.Created
}

type SkippedRow struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type SheetStats struct {
	Sheet   string `json:"sheet"`
	Kind    string `json:"kind"`
	Rows    int    `json:"rows"`
	Skipped int    `json:"skipped"`
	// PeersDropped: отложенные пиры, так и не найденные к концу листа.
	PeersDropped int          `json:"peers_dropped"`
	SkippedRows  []SkippedRow `json:"skipped_rows"`
	Counts
}

func truncate(msg string, limit int) string {
	r := []rune(msg)
	if len(r) <= limit {
		return msg
	}
	return string(r[:limit]) + truncationSuffix
}

func (s *SheetStats) skip(row int, err error) {
	s.Skipped++
	if len(s.SkippedRows) < maxSkippedRows {
		s.SkippedRows = append(s.SkippedRows, SkippedRow{Row: row, Message: truncate(err.Error(), maxErrorMessage)})
	}
}

type Summary struct {
	RunID      uuid.UUID     `json:"run_id"`
	File       string        `json:"file"`
	DryRun     bool          `json:"dry_run"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Sheets     []*SheetStats `json:"sheets"`
	// IgnoredSheets: листы неизвестного типа.
	IgnoredSheets []string `json:"ignored_sheets"`
	Totals        Counts   `json:"totals"`
	Rows          int      `json:"rows"`
	Skipped       int      `json:"skipped"`
}

func newSummary(file string, dryRun bool) *Summary {
	return &Summary{
		RunID:         uuid.New(),
		File:          file,
		DryRun:        dryRun,
		StartedAt:     time.Now(),
		Sheets:        make([]*SheetStats, 0),
		IgnoredSheets: make([]string, 0),
	}
}

func (s *Summary) finish() {
	s.Totals = Counts{}
	s.Rows, s.Skipped = 0, 0
	for _, sh := range s.Sheets {
		s.Totals.add(sh.Counts)
		s.Rows += sh.Rows
		s.Skipped += sh.Skipped
	}
	s.FinishedAt = time.Now()
}

// Print пишет человекочитаемый отчёт о прогоне.
func (s *Summary) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	mode := ""
	if s.DryRun {
		mode = " (dry run, nothing saved)"
	}
	fmt.Fprintf(tw, "run %s: %s%s\n", s.RunID, s.File, mode)

	for _, sh := range s.Sheets {
		fmt.Fprintf(tw, "\nsheet %q [%s]: %d rows, %d skipped\n", sh.Sheet, sh.Kind, sh.Rows, sh.Skipped)
		printCounts(tw, sh.Counts)
		if sh.PeersDropped > 0 {
			fmt.Fprintf(tw, "  peers dropped\t%d\n", sh.PeersDropped)
		}
		for _, r := range sh.SkippedRows {
			fmt.Fprintf(tw, "  row %d\t%s\n", r.Row, r.Message)
		}
	}
	for _, name := range s.IgnoredSheets {
		fmt.Fprintf(tw, "\nsheet %q ignored: unknown type\n", name)
	}

	fmt.Fprintf(tw, "\ntotal: %d rows, %d skipped, %d created\n", s.Rows, s.Skipped, s.Totals.Created())
	printCounts(tw, s.Totals)
	fmt.Fprintf(tw, "took %s\n", s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))

	return tw.Flush()
}

func printCounts(w io.Writer, c Counts) {
	fmt.Fprintf(w, "  companies\tcreated %d\texisting %d\n", c.Companies.Created, c.Companies.Existing)
	fmt.Fprintf(w, "  directors\tcreated %d\texisting %d\n", c.Directors.Created, c.Directors.Existing)
	fmt.Fprintf(w, "  remunerations\tcreated %d\texisting %d\n", c.Remunerations.Created, c.Remunerations.Existing)
	fmt.Fprintf(w, "  financials\tcreated %d\texisting %d\n", c.Financials.Created, c.Financials.Existing)
	fmt.Fprintf(w, "  peers\tcreated %d\texisting %d\n", c.Peers.Created, c.Peers.Existing)
}

func (s *Summary) String() string {
	var b strings.Builder
	_ = s.Print(&b)
	return b.String()
}
