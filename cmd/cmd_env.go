// cmd_env.go - env Command
// Hauptfunktionen: EnvHandler, newEnvCmd
package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ollama/posids/envconfig"
)

// EnvHandler - Listet alle Umgebungsvariablen mit aktuellem Wert auf
func EnvHandler(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	// Beschreibung auf Terminal-Breite kuerzen
	descWidth := 0
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if termWidth, _, err := term.GetSize(int(f.Fd())); err == nil && termWidth > 80 {
			descWidth = termWidth - 60
		}
	}

	var data [][]string
	for pair := envconfig.Ordered().Oldest(); pair != nil; pair = pair.Next() {
		desc := pair.Value.Description
		if descWidth > 0 {
			desc = runewidth.Truncate(desc, descWidth, "...")
		}
		data = append(data, []string{pair.Key, fmt.Sprintf("%v", pair.Value.Value), desc})
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"NAME", "VALUE", "DESCRIPTION"})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()

	return nil
}

// newEnvCmd - Erstellt den env Command
func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show the effective environment configuration",
		Args:  cobra.ExactArgs(0),
		RunE:  EnvHandler,
	}
}
