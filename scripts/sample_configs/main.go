package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ntc490/seating-charter/internal/chartfile"
)

func main() {
	var (
		outDir string
		force  bool
	)

	flag.StringVar(&outDir, "out", ".", "Directory to write the starter files into")
	flag.BoolVar(&force, "force", false, "Overwrite existing files")
	flag.Parse()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("failed to create %s: %v", outDir, err)
	}

	write(filepath.Join(outDir, "classroom.yaml"), sampleClassroom(), force)
	write(filepath.Join(outDir, "students.yaml"), sampleRoster(), force)
}

func write(path string, doc interface{}, force bool) {
	if !force {
		if _, err := os.Stat(path); err == nil {
			log.Fatalf("%s already exists (use -force to overwrite)", path)
		}
	}
	raw, err := yaml.Marshal(doc)
	if err != nil {
		log.Fatalf("failed to marshal %s: %v", path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		log.Fatalf("failed to write %s: %v", path, err)
	}
	log.Printf("wrote %s", path)
}

func sampleClassroom() *chartfile.ClassroomDoc {
	return &chartfile.ClassroomDoc{
		Rows:    4,
		Columns: 5,
		DefaultCapacity: &chartfile.CapacityDoc{
			Min: intp(chartfile.DefaultMinCapacity),
			Max: intp(chartfile.DefaultMaxCapacity),
		},
		BlockedDesks: []chartfile.DeskRef{
			{Row: 4, Column: 5},
		},
		Overrides: []chartfile.OverrideDesk{
			{Row: 1, Column: 1, Min: intp(1), Max: intp(2)},
		},
	}
}

func sampleRoster() *chartfile.RosterDoc {
	return &chartfile.RosterDoc{
		Students: []string{
			"Amy", "Ben", "Carla", "Diego", "Elena", "Felix",
			"Grace", "Hana", "Ivan", "Jade", "Kofi", "Lena",
		},
		Constraints: chartfile.ConstraintsDoc{
			CannotSitTogether: [][]string{
				{"Amy", "Ben"},
			},
			LargeStudents: []string{"Ivan"},
			RowRequirements: []chartfile.RowRequire{
				{Student: "Carla", Row: 1},
			},
			ColumnRequirements: []chartfile.ColumnRequire{
				{Student: "Diego", Column: 5},
			},
		},
	}
}

func intp(v int) *int {
	return &v
}
