// cmd_display.go - Display und Output-Funktionen
// Hauptfunktionen: display, displayTable, displayRaw, segmentLabels
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ollama/posids/api"
	"github.com/ollama/posids/positions"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatRaw   = "raw"
)

var errTerminalOutput = errors.New("refusing to write binary output to a terminal, redirect stdout to a file")

// display - Gibt die Antwort im gewaehlten Format aus
func display(cmd *cobra.Command, resp *api.PositionsResponse, out outputOptions) error {
	w := cmd.OutOrStdout()

	var err error
	switch out.Format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(resp)
	case formatRaw:
		err = displayRaw(w, resp, out.Planar)
	default:
		displayTable(w, resp)
	}
	if err != nil {
		return err
	}

	if out.Verbose {
		resp.Summary(cmd.ErrOrStderr())
	}
	return nil
}

// displayTable - Ein Tupel pro Zeile, danach eine Zusammenfassung
func displayTable(w io.Writer, resp *api.PositionsResponse) {
	header := []string{"TOKEN", "ROW", "COL"}
	if resp.Arity == 3 {
		header = []string{"TOKEN", "SEGMENT", "T", "H", "W"}
	}

	labels := segmentLabels(resp.Segments)

	var data [][]string
	for i := 0; resp.Arity > 0 && (i+1)*resp.Arity <= len(resp.Positions); i++ {
		row := []string{strconv.Itoa(i)}
		if resp.Arity == 3 && i < len(labels) {
			row = append(row, labels[i])
		}
		for _, v := range resp.Positions[i*resp.Arity : (i+1)*resp.Arity] {
			row = append(row, strconv.FormatUint(uint64(v), 10))
		}
		data = append(data, row)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	p := message.NewPrinter(language.English)
	if resp.Arity == 3 {
		p.Fprintf(w, "\n%d tokens, next position %d\n", resp.Tokens, resp.Next)
	} else {
		p.Fprintf(w, "\n%d tokens\n", resp.Tokens)
	}
}

// displayRaw - Schreibt die Werte als little-endian uint32
func displayRaw(w io.Writer, resp *api.PositionsResponse, planar int) error {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return errTerminalOutput
	}

	values := resp.Positions
	if planar > 0 {
		values = resp.Planar
	}

	_, err := (&positions.Table{Arity: resp.Arity, Values: values}).WriteTo(w)
	return err
}

// segmentLabels - Beschriftung pro Token, z.B. "text" oder "vision 3x2x2"
func segmentLabels(segs []api.Segment) []string {
	var labels []string
	for _, seg := range segs {
		label, n := seg.Kind, seg.Length
		if seg.Kind == "vision" {
			label = fmt.Sprintf("vision %dx%dx%d", seg.Temporal, seg.Height, seg.Width)
			n = seg.Temporal * seg.Height * seg.Width
		}
		for range n {
			labels = append(labels, label)
		}
	}
	return labels
}
