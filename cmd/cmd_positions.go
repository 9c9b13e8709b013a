// cmd_positions.go - spatial und temporal Commands
// Hauptfunktionen: SpatialHandler, TemporalHandler, newSpatialCmd, newTemporalCmd
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ollama/posids/api"
	"github.com/ollama/posids/envconfig"
	"github.com/ollama/posids/positions"
	"github.com/ollama/posids/server"
)

// outputOptions - Gemeinsame Flags beider Commands
type outputOptions struct {
	Format  string
	Planar  int
	Remote  bool
	Verbose bool
}

func addGeometryFlags(cmd *cobra.Command) {
	cmd.Flags().Int("height", 0, "Image height in pixels")
	cmd.Flags().Int("width", 0, "Image width in pixels")
	cmd.Flags().Int("patch-size", int(envconfig.PatchSize()), "Patch edge length in pixels")
	cmd.Flags().Int("merge-size", int(envconfig.MergeSize()), "Spatial merge edge length")
	cmd.Flags().String("format", "table", "Output format (table, json, raw)")
	cmd.Flags().Int("planar", 0, "Emit the axis-major layout with this many sections (0 to disable)")
	cmd.Flags().Bool("remote", false, "Build the table on a running posids server")
	cmd.Flags().Bool("verbose", envconfig.Verbose(), "Show timings for the request")
}

func readOutputOptions(cmd *cobra.Command) (outputOptions, error) {
	var o outputOptions
	var err error

	if o.Format, err = cmd.Flags().GetString("format"); err != nil {
		return o, err
	}
	switch o.Format {
	case formatTable, formatJSON, formatRaw:
	default:
		return o, fmt.Errorf("unknown format %q, expected table, json or raw", o.Format)
	}

	if o.Planar, err = cmd.Flags().GetInt("planar"); err != nil {
		return o, err
	}
	if o.Remote, err = cmd.Flags().GetBool("remote"); err != nil {
		return o, err
	}
	if o.Verbose, err = cmd.Flags().GetBool("verbose"); err != nil {
		return o, err
	}
	return o, nil
}

// localOptions - Optionen fuer die Berechnung ohne Server
func localOptions(mergeSize int) []positions.Option {
	return []positions.Option{
		positions.WithMergeSize(mergeSize),
		positions.WithMaxTokens(envconfig.MaxTokens()),
	}
}

// SpatialHandler - Baut eine 2D-Tabelle lokal oder ueber den Server
func SpatialHandler(cmd *cobra.Command, _ []string) error {
	out, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}

	req := api.SpatialRequest{Planar: out.Planar}
	for name, dst := range map[string]*int{
		"height":     &req.Height,
		"width":      &req.Width,
		"patch-size": &req.PatchSize,
		"merge-size": &req.MergeSize,
	} {
		if *dst, err = cmd.Flags().GetInt(name); err != nil {
			return err
		}
	}

	var resp *api.PositionsResponse
	if out.Remote {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return err
		}
		if resp, err = client.Spatial(cmd.Context(), &req); err != nil {
			return err
		}
	} else {
		start := time.Now()
		table, err := positions.Spatial(req.Height, req.Width, req.PatchSize, localOptions(req.MergeSize)...)
		if err != nil {
			return err
		}
		if resp, err = newLocalResponse(table, out.Planar, start); err != nil {
			return err
		}
	}

	return display(cmd, resp, out)
}

// TemporalHandler - Baut eine 3D-Tabelle lokal oder ueber den Server
func TemporalHandler(cmd *cobra.Command, _ []string) error {
	out, err := readOutputOptions(cmd)
	if err != nil {
		return err
	}

	req := api.TemporalRequest{Planar: out.Planar}
	for name, dst := range map[string]*int{
		"temporal":   &req.Temporal,
		"height":     &req.Height,
		"width":      &req.Width,
		"patch-size": &req.PatchSize,
		"merge-size": &req.MergeSize,
		"pre-text":   &req.PreText,
		"post-text":  &req.PostText,
	} {
		if *dst, err = cmd.Flags().GetInt(name); err != nil {
			return err
		}
	}

	var resp *api.PositionsResponse
	if out.Remote {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return err
		}
		if resp, err = client.Temporal(cmd.Context(), &req); err != nil {
			return err
		}
	} else {
		start := time.Now()
		table, err := positions.SpatioTemporal(positions.TemporalParams{
			Temporal:  req.Temporal,
			Height:    req.Height,
			Width:     req.Width,
			PatchSize: req.PatchSize,
			PreText:   req.PreText,
			PostText:  req.PostText,
		}, localOptions(req.MergeSize)...)
		if err != nil {
			return err
		}
		if resp, err = newLocalResponse(table, out.Planar, start); err != nil {
			return err
		}
	}

	return display(cmd, resp, out)
}

func newLocalResponse(table *positions.Table, planar int, start time.Time) (*api.PositionsResponse, error) {
	resp, err := server.NewResponse(table, planar)
	if err != nil {
		return nil, err
	}
	resp.TotalDuration = time.Since(start)
	return &resp, nil
}

// newSpatialCmd - Erstellt den spatial Command
func newSpatialCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spatial",
		Short: "Build a 2-D (row, col) position table for an image",
		Example: `  posids spatial --height 56 --width 84
  posids spatial --height 28 --width 28 --format json`,
		Args: cobra.ExactArgs(0),
		RunE: SpatialHandler,
	}
	addGeometryFlags(cmd)
	return cmd
}

// newTemporalCmd - Erstellt den temporal Command
func newTemporalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "temporal",
		Short: "Build a 3-D (t, h, w) position table for text, a vision block and text",
		Example: `  posids temporal --temporal 3 --height 56 --width 56 --pre-text 4 --post-text 5
  posids temporal --temporal 1 --height 28 --width 28 --planar 4 --format raw > positions.bin`,
		Args: cobra.ExactArgs(0),
		RunE: TemporalHandler,
	}
	addGeometryFlags(cmd)
	cmd.Flags().Int("temporal", 1, "Number of temporal patches (frames)")
	cmd.Flags().Int("pre-text", 0, "Text tokens before the vision block")
	cmd.Flags().Int("post-text", 0, "Text tokens after the vision block")
	return cmd
}
