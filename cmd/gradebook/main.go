package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/noah-isme/hurricane-api/internal/catalog"
	"github.com/noah-isme/hurricane-api/internal/grading"
	"github.com/noah-isme/hurricane-api/internal/models"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	file        string
	catalogFile string
	asJSON      bool
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "gradebook",
		Short:         "Offline averages, rank and predictions over a subjects file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "Subjects JSON file: an array of subjects or an object with a subjects field (required)")
	root.PersistentFlags().StringVar(&opts.catalogFile, "catalog", "", "Subject catalog YAML, defaults to the embedded catalog")
	root.PersistentFlags().BoolVar(&opts.asJSON, "json", false, "Print JSON instead of a table")
	_ = root.MarkPersistentFlagRequired("file")

	root.AddCommand(newAverageCmd(opts), newRankCmd(opts), newPredictCmd(opts))
	return root
}

func newAverageCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "average",
		Short: "Semester and yearly averages per subject",
		RunE: func(cmd *cobra.Command, _ []string) error {
			subjects, err := loadSubjects(opts)
			if err != nil {
				return err
			}
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), subjects)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "Môn\tHK1\tHK2\tCả năm\tNhận xét")
			for _, s := range subjects {
				if s.IsGraded() {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Name, score(s.Avg1), score(s.Avg2), score(s.OverallAvg), s.Comment)
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", s.Name, status(s.Status1), status(s.Status2), status(grading.YearlyStatus(s)))
			}
			return tw.Flush()
		},
	}
}

func newRankCmd(opts *options) *cobra.Command {
	var period string
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "GPA and rank for a period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := models.Period(period)
			if !p.Valid() {
				return fmt.Errorf("period must be hk1, hk2 or yearly, got %q", period)
			}
			subjects, err := loadSubjects(opts)
			if err != nil {
				return err
			}
			summary := grading.Summarize(subjects, p)
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Kỳ: %s\n", summary.Period)
			fmt.Fprintf(out, "ĐTB: %s\n", strconv.FormatFloat(summary.GPA, 'f', 1, 64))
			fmt.Fprintf(out, "Học lực: %s\n", summary.Rank)
			fmt.Fprintf(out, "Môn có điểm: %d, môn đánh giá chưa đủ: %d\n", summary.GradedWithData, summary.PassFailPending)
			return nil
		},
	}
	cmd.Flags().StringVarP(&period, "period", "p", string(models.PeriodHK1), "hk1, hk2 or yearly")
	return cmd
}

func newPredictCmd(opts *options) *cobra.Command {
	var (
		goal   string
		strong []string
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Scores needed per subject to reach a rank goal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := models.PredictionTarget{Goal: models.Goal(goal)}
			if !target.Goal.Valid() {
				return fmt.Errorf("goal must be excellent or good, got %q", goal)
			}
			for _, name := range strong {
				if !target.Strong.Contains(name) {
					target.Strong = target.Strong.Toggle(name)
				}
			}
			subjects, err := loadSubjects(opts)
			if err != nil {
				return err
			}
			predictions := grading.PredictAll(subjects, target)
			if opts.asJSON {
				return writeJSON(cmd.OutOrStdout(), predictions)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "Môn\tMục tiêu\tTrạng thái\tNhận xét")
			for _, p := range predictions {
				name := p.Subject
				if p.Strong {
					name += " *"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, strconv.FormatFloat(p.Target, 'f', 1, 64), p.Status, p.Comment)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&goal, "goal", "g", string(models.GoalExcellent), "excellent or good")
	cmd.Flags().StringSliceVarP(&strong, "strong", "s", nil, "Strong subjects (repeatable or comma separated)")
	return cmd
}

// loadSubjects reads the file, fills missing types from the catalog and
// recomputes every derived field.
func loadSubjects(opts *options) ([]models.Subject, error) {
	cat, err := catalog.Load(opts.catalogFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	raw, err := os.ReadFile(opts.file)
	if err != nil {
		return nil, fmt.Errorf("read subjects: %w", err)
	}
	subjects, err := decodeSubjects(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", opts.file, err)
	}
	for i := range subjects {
		if !subjects[i].Type.Valid() {
			subjects[i].Type = cat.TypeOf(subjects[i].Name)
		}
		subjects[i].HK1.Clamp()
		subjects[i].HK2.Clamp()
	}
	subjects = grading.DeriveAll(subjects)
	cat.Sort(subjects)
	return subjects, nil
}

func decodeSubjects(raw []byte) ([]models.Subject, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var subjects []models.Subject
		err := json.Unmarshal(raw, &subjects)
		return subjects, err
	}
	var wrapper struct {
		Subjects []models.Subject `json:"subjects"`
	}
	err := json.Unmarshal(raw, &wrapper)
	return wrapper.Subjects, err
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func score(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func status(v *models.PassStatus) string {
	switch {
	case v == nil:
		return "-"
	case *v == models.StatusPass:
		return "Đạt"
	default:
		return "Chưa đạt"
	}
}
