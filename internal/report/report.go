// Package report writes ranked triplets.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/homier/tripletmap/internal/rank"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/sugawarayuuta/sonnet"
)

const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatTable = "table"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Formats returns the supported output formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatTable}
}

// Row is the JSON shape of a ranked triplet.
type Row struct {
	Rank    int    `json:"rank"`
	Triplet string `json:"triplet"`
	Count   int    `json:"count"`
}

func rows(items []rank.Item) []Row {
	return lo.Map(items, func(it rank.Item, i int) Row {
		return Row{Rank: i + 1, Triplet: it.Text, Count: it.Count}
	})
}

// Write renders items to w in the given format. Nothing is written for
// text and table output when there are no items.
func Write(w io.Writer, format string, items []rank.Item) error {
	switch format {
	case FormatText:
		return writeText(w, items)
	case FormatJSON:
		return writeJSON(w, items)
	case FormatTable:
		return writeTable(w, items)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeText(w io.Writer, items []rank.Item) error {
	bw := bufio.NewWriter(w)
	for _, it := range items {
		if _, err := fmt.Fprintf(bw, "%s - %d\n", it.Text, it.Count); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func writeJSON(w io.Writer, items []rank.Item) error {
	data, err := sonnet.Marshal(rows(items))
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	_, err = w.Write(append(data, '\n'))
	return err
}

func writeTable(w io.Writer, items []rank.Item) error {
	if len(items) == 0 {
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Rank", "Triplet", "Count"})
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
	})

	table.AppendBulk(lo.Map(rows(items), func(r Row, _ int) []string {
		return []string{strconv.Itoa(r.Rank), r.Triplet, strconv.Itoa(r.Count)}
	}))
	table.Render()

	return nil
}
