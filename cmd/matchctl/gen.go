package main

import (
	"fmt"
	"os"

	"github.com/okian/classmatch/internal/samples"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newGenCmd() *cobra.Command {
	var (
		teacherCount int
		studentCount int
		seed         int64
		outPath      string
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a synthetic fixture of teachers and students",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if teacherCount <= 0 || studentCount <= 0 {
				return fmt.Errorf("teacher and student counts must be positive")
			}

			gen := samples.New(seed)
			fix := fixture{
				Teachers: gen.Teachers(teacherCount),
				Students: gen.Students(studentCount),
			}

			data, err := yaml.Marshal(&fix)
			if err != nil {
				return fmt.Errorf("encode fixture: %w", err)
			}

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write fixture: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d teachers and %d students to %s\n", teacherCount, studentCount, outPath)
			return nil
		},
	}

	cmd.Flags().IntVarP(&teacherCount, "teachers", "t", 4, "number of teachers to generate")
	cmd.Flags().IntVarP(&studentCount, "students", "s", 20, "number of students to generate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for reproducible fixtures")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file, stdout when empty")

	return cmd
}
