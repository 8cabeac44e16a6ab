package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/okian/classmatch/internal/domain/engine"
	"github.com/okian/classmatch/internal/domain/model"
	"github.com/okian/classmatch/internal/domain/scoring"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fixture is the on-disk input for the match command.
type fixture struct {
	Teachers    []model.TeacherProfile `yaml:"teachers"`
	Students    []model.StudentProfile `yaml:"students"`
	Constraints *struct {
		MaxClassSize int `yaml:"max_class_size"`
		MinClassSize int `yaml:"min_class_size"`
	} `yaml:"constraints"`
}

// matchReport is the JSON output of the match command.
type matchReport struct {
	Classes      map[string][]string `json:"classes"`
	ClassScores  map[string]float64  `json:"class_scores"`
	AverageScore float64             `json:"average_score"`
}

func newMatchCmd() *cobra.Command {
	var (
		inputPath       string
		maxClassSize    int
		minClassSize    int
		textBlendWeight float64
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match a fixture of teachers and students into balanced classes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fix, err := loadFixture(inputPath)
			if err != nil {
				return err
			}

			constraints := model.DefaultConstraints()
			if fix.Constraints != nil {
				constraints = model.Constraints{
					MaxClassSize: fix.Constraints.MaxClassSize,
					MinClassSize: fix.Constraints.MinClassSize,
				}
			}
			if cmd.Flags().Changed("max-class-size") {
				constraints.MaxClassSize = maxClassSize
			}
			if cmd.Flags().Changed("min-class-size") {
				constraints.MinClassSize = minClassSize
			}

			scorer := scoring.New(scoring.WithTextBlendWeight(textBlendWeight))
			eng := engine.New(engine.WithScorer(scorer))

			roster, err := eng.Match(cmd.Context(), fix.Teachers, fix.Students, constraints)
			if err != nil {
				return fmt.Errorf("match fixture: %w", err)
			}

			report := buildReport(eng, roster, fix.Teachers, fix.Students)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "fixture file (YAML) with teachers and students")
	cmd.Flags().IntVar(&maxClassSize, "max-class-size", model.DefaultMaxClassSize, "upper class size bound")
	cmd.Flags().IntVar(&minClassSize, "min-class-size", model.DefaultMinClassSize, "lower class size bound")
	cmd.Flags().Float64Var(&textBlendWeight, "text-blend", 0, "share of the pair score taken from text overlap, 0 disables")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var fix fixture
	if err := yaml.Unmarshal(data, &fix); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if len(fix.Teachers) == 0 && len(fix.Students) == 0 {
		return nil, fmt.Errorf("fixture %s holds no teachers or students", path)
	}
	return &fix, nil
}

func buildReport(eng *engine.Engine, roster *model.Roster, teachers []model.TeacherProfile, students []model.StudentProfile) matchReport {
	teacherByID := make(map[string]model.TeacherProfile, len(teachers))
	for _, t := range teachers {
		teacherByID[t.TeacherID] = t
	}
	studentByID := make(map[string]model.StudentProfile, len(students))
	for _, s := range students {
		studentByID[s.StudentID] = s
	}

	report := matchReport{
		Classes:     roster.Classes(),
		ClassScores: make(map[string]float64, roster.Len()),
	}

	var sum float64
	var pairs int
	for _, teacherID := range roster.TeacherIDs() {
		teacher, ok := teacherByID[teacherID]
		if !ok {
			continue
		}
		var classSum float64
		var classPairs int
		for _, studentID := range roster.Class(teacherID) {
			student, ok := studentByID[studentID]
			if !ok {
				continue
			}
			score := eng.ScorePair(teacher, student)
			classSum += score
			classPairs++
		}
		if classPairs > 0 {
			report.ClassScores[teacherID] = classSum / float64(classPairs)
			sum += classSum
			pairs += classPairs
		}
	}
	if pairs > 0 {
		report.AverageScore = sum / float64(pairs)
	}
	return report
}
