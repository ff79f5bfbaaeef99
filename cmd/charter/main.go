package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ntc490/seating-charter/internal/chartfile"
	"github.com/ntc490/seating-charter/internal/render"
	"github.com/ntc490/seating-charter/internal/seating"
	"github.com/ntc490/seating-charter/pkg/export"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "charter",
		Short:         "Generate constraint-aware classroom seating charts",
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newGenerateCommand() *cobra.Command {
	var (
		classroomPath string
		strategyName  string
		seed          int64
		attempts      int
		format        string
		outputPath    string
		floorPlan     bool
		title         string
	)

	cmd := &cobra.Command{
		Use:   "generate <students.yaml>",
		Short: "Generate a seating chart from classroom and roster files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, roster, err := loadDocuments(classroomPath, args[0])
			if err != nil {
				return err
			}

			strategy, err := seating.ParseStrategy(strategyName)
			if err != nil {
				return err
			}

			gen, err := seating.New(layout, roster, seating.Options{Strategy: strategy, MaxAttempts: attempts})
			if err != nil {
				return err
			}

			var rng *rand.Rand
			if cmd.Flags().Changed("seed") {
				rng = rand.New(rand.NewSource(seed))
			}

			chart, err := gen.Generate(rng)
			if err != nil {
				return err
			}

			for _, p := range gen.Underfilled(chart) {
				rule := layout.CapacityAt(p)
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: desk (row %d, column %d) is under minimum capacity: %d/%d\n",
					p.Row+1, p.Col+1, len(chart.Occupants(p)), rule.Min)
			}

			data, err := renderChart(chart, format, floorPlan, title)
			if err != nil {
				return err
			}

			if outputPath == "" || outputPath == "-" {
				if format == "pdf" {
					return errors.New("pdf output requires --output")
				}
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outputPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outputPath, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&classroomPath, "classroom", "c", "classroom.yaml", "Classroom layout file")
	cmd.Flags().StringVarP(&strategyName, "strategy", "s", "", "Placement strategy (cluster, spread, single)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for reproducible charts")
	cmd.Flags().IntVar(&attempts, "attempts", seating.DefaultMaxAttempts, "Maximum placement attempts")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, csv, pdf, json)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&floorPlan, "floor-plan", false, "Render the pdf as a classroom floor plan")
	cmd.Flags().StringVar(&title, "title", "", "Chart title used in pdf output")

	return cmd
}

func newValidateCommand() *cobra.Command {
	var classroomPath string

	cmd := &cobra.Command{
		Use:   "validate <students.yaml>",
		Short: "Validate classroom and roster files without generating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			layout, roster, err := loadDocuments(classroomPath, args[0])
			if err != nil {
				return err
			}
			if _, err := seating.New(layout, roster, seating.Options{}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d desks, %d students\n", layout.OpenDesks(), len(roster.Students))
			return nil
		},
	}

	cmd.Flags().StringVarP(&classroomPath, "classroom", "c", "classroom.yaml", "Classroom layout file")

	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "charter %s (%s)\n", version, commit)
		},
	}
}

func loadDocuments(classroomPath, rosterPath string) (seating.Layout, seating.Roster, error) {
	layout, err := chartfile.LoadClassroom(classroomPath)
	if err != nil {
		return seating.Layout{}, seating.Roster{}, err
	}
	roster, err := chartfile.LoadRoster(rosterPath)
	if err != nil {
		return seating.Layout{}, seating.Roster{}, err
	}
	return layout, roster, nil
}

func renderChart(chart *seating.Chart, format string, floorPlan bool, title string) ([]byte, error) {
	if title == "" {
		title = "Seating Chart"
	}
	switch strings.ToLower(format) {
	case "text":
		return []byte(render.NewTextRenderer().RenderString(chart)), nil
	case "csv":
		return export.NewCSVExporter().Render(render.ChartDataset(chart))
	case "pdf":
		if floorPlan {
			return export.NewPDFExporter().RenderFloorPlan(render.FloorPlan(chart), title)
		}
		return export.NewPDFExporter().Render(render.ChartDataset(chart), title)
	case "json":
		return jsonChart(chart)
	default:
		return nil, fmt.Errorf("unknown format %q (expected text, csv, pdf or json)", format)
	}
}

type jsonDesk struct {
	Row      int      `json:"row"`
	Column   int      `json:"column"`
	Blocked  bool     `json:"blocked,omitempty"`
	Students []string `json:"students"`
}

type jsonOutput struct {
	Rows     int        `json:"rows"`
	Columns  int        `json:"columns"`
	Students int        `json:"students"`
	Attempts int        `json:"attempts"`
	Desks    []jsonDesk `json:"desks"`
}

func jsonChart(chart *seating.Chart) ([]byte, error) {
	layout := chart.Layout()
	out := jsonOutput{
		Rows:     layout.Rows,
		Columns:  layout.Columns,
		Students: chart.PlacedStudents(),
		Attempts: chart.Attempts(),
	}
	for _, p := range layout.Positions() {
		desk := jsonDesk{Row: p.Row + 1, Column: p.Col + 1, Students: []string{}}
		if layout.IsBlocked(p) {
			desk.Blocked = true
		} else {
			desk.Students = append(desk.Students, chart.Occupants(p)...)
		}
		out.Desks = append(out.Desks, desk)
	}
	return json.MarshalIndent(out, "", "  ")
}
