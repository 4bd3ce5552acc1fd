package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"gotidy/adapters/file"
	"gotidy/domain/table"
	"gotidy/domain/tidy"
	"gotidy/internal/cleaning"
	"gotidy/internal/config"
	"gotidy/internal/profiling"
	"gotidy/internal/report"
)

func main() {
	godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "gotidy",
		Short: "Tidy-data converter for tables with nested JSON cells",
		Long: `gotidy inspects tabular files (CSV, Excel, JSON) whose cells may hold
nested dictionaries and arrays, recommends a conversion strategy, and
converts them into flat, analysis-ready tables.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newAnalyzeCmd(),
		newConvertCmd(),
		newProfileCmd(),
		newQualityCmd(),
		newCleanCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var dataPath string

	cmd := &cobra.Command{
		Use:   "analyze [input-file]",
		Short: "Classify columns and recommend a conversion strategy",
		Long: `Analyze inspects the first few non-null values of each column, reports
which columns hold dictionaries, arrays or simple scalars, and recommends
one of the four conversion strategies.

Example: gotidy analyze survey.json --data-path results`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(args[0], dataPath)
			if err != nil {
				return err
			}
			return printJSON(tidy.Analyze(t))
		},
	}

	cmd.Flags().StringVar(&dataPath, "data-path", "", "Path to the records array inside a JSON document")

	return cmd
}

func newConvertCmd() *cobra.Command {
	var strategyName string
	var separator string
	var dataPath string
	var output string

	cmd := &cobra.Command{
		Use:   "convert [input-file]",
		Short: "Convert a table into tidy form",
		Long: `Convert applies one of the four strategies: preserve_structure,
normalize_only, normalize_explode or flatten_all. With no --strategy the
recommended strategy from analysis is used.

Example: gotidy convert orders.csv --strategy normalize_explode -o orders_tidy.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(args[0], dataPath)
			if err != nil {
				return err
			}

			strategy := tidy.Strategy(strategyName)
			if strategyName == "" {
				strategy = tidy.Analyze(t).RecommendedStrategy
				fmt.Fprintf(os.Stderr, "Using recommended strategy: %s\n", strategy)
			} else if _, err := tidy.ParseStrategy(strategyName); err != nil {
				return err
			}

			opts := tidy.DefaultOptions()
			if separator != "" {
				opts.Separator = separator
			}

			result, err := tidy.Convert(t, strategy, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Converted %dx%d -> %dx%d (rows x columns)\n",
				t.NumRows(), t.NumColumns(), result.NumRows(), result.NumColumns())

			return writeTable(result, output)
		},
	}

	cmd.Flags().StringVarP(&strategyName, "strategy", "s", "", "Conversion strategy (default: recommended)")
	cmd.Flags().StringVar(&separator, "separator", "", "Separator for flattened column names (default \".\")")
	cmd.Flags().StringVar(&dataPath, "data-path", "", "Path to the records array inside a JSON document")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.csv, .xlsx or .json); default JSON to stdout")

	return cmd
}

func newProfileCmd() *cobra.Command {
	var dataPath string
	var workers int

	cmd := &cobra.Command{
		Use:   "profile [input-file]",
		Short: "Compute per-column statistics and a correlation matrix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(args[0], dataPath)
			if err != nil {
				return err
			}
			profiler := profiling.NewProfiler(workers)
			profile, err := profiler.ProfileTable(context.Background(), t)
			if err != nil {
				return err
			}
			return printJSON(profile)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data-path", "", "Path to the records array inside a JSON document")
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent column profilers")

	return cmd
}

func newQualityCmd() *cobra.Command {
	var dataPath string

	cmd := &cobra.Command{
		Use:   "quality [input-file]",
		Short: "Score data quality 0-100",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(args[0], dataPath)
			if err != nil {
				return err
			}
			return printJSON(profiling.QualityScore(t))
		},
	}

	cmd.Flags().StringVar(&dataPath, "data-path", "", "Path to the records array inside a JSON document")

	return cmd
}

func newCleanCmd() *cobra.Command {
	var dataPath string
	var missing string
	var outliers string
	var dedupe bool
	var tidyStrings bool
	var output string

	cmd := &cobra.Command{
		Use:   "clean [input-file]",
		Short: "Apply cleaning steps: missing values, duplicates, outliers, strings",
		Long: `Clean applies the requested steps in a fixed order: missing-value
handling, duplicate removal, outlier treatment, string tidying.

Example: gotidy clean sales.csv --missing median --dedupe --outliers iqr_clip -o sales_clean.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := loadTable(args[0], dataPath)
			if err != nil {
				return err
			}
			result := t
			if missing != "" {
				result, err = cleaning.HandleMissing(result, cleaning.MissingStrategy(missing), nil)
				if err != nil {
					return err
				}
			}
			if dedupe {
				result = cleaning.RemoveDuplicates(result)
			}
			if outliers != "" {
				result, err = cleaning.HandleOutliers(result, cleaning.OutlierStrategy(outliers), nil)
				if err != nil {
					return err
				}
			}
			if tidyStrings {
				result = cleaning.CleanStrings(result, nil)
			}
			return writeTable(result, output)
		},
	}

	cmd.Flags().StringVar(&dataPath, "data-path", "", "Path to the records array inside a JSON document")
	cmd.Flags().StringVar(&missing, "missing", "", "Missing-value strategy (drop_rows, drop_columns, mean, median, mode, ffill, bfill)")
	cmd.Flags().StringVar(&outliers, "outliers", "", "Outlier strategy (iqr_clip, zscore_median, percentile_clip)")
	cmd.Flags().BoolVar(&dedupe, "dedupe", false, "Remove duplicate rows")
	cmd.Flags().BoolVar(&tidyStrings, "strings", false, "Trim, lowercase and null-out blank strings")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.csv, .xlsx or .json); default JSON to stdout")

	return cmd
}

func newReportCmd() *cobra.Command {
	var dataPath string
	var strategyName string
	var title string
	var output string

	cmd := &cobra.Command{
		Use:   "report [input-file]",
		Short: "Render a combined analysis report as HTML",
		Long: `Report analyzes, profiles and quality-scores the table, optionally runs a
conversion, and writes the combined report as a standalone HTML page.

Example: gotidy report survey.json --strategy flatten_all -o survey_report.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			t, err := loadTable(args[0], dataPath)
			if err != nil {
				return err
			}

			analysis := tidy.Analyze(t)
			quality := profiling.QualityScore(t)
			profiler := profiling.NewProfiler(cfg.Profiling.Workers)
			profile, err := profiler.ProfileTable(context.Background(), t)
			if err != nil {
				return err
			}

			in := report.Input{
				Title:    title,
				Analysis: &analysis,
				Profile:  profile,
				Quality:  &quality,
			}

			if strategyName != "" {
				strategy, err := tidy.ParseStrategy(strategyName)
				if err != nil {
					return err
				}
				converted, err := tidy.Convert(t, strategy, tidy.DefaultOptions())
				if err != nil {
					return err
				}
				in.Conversion = &report.ConversionSummary{
					Strategy:      strategy,
					InputRows:     t.NumRows(),
					OutputRows:    converted.NumRows(),
					InputColumns:  t.NumColumns(),
					OutputColumns: converted.NumColumns(),
				}
			}

			rep := report.Generate(in)

			if output == "" {
				base := filepath.Base(args[0])
				name := base[:len(base)-len(filepath.Ext(base))] + "_report.html"
				if err := os.MkdirAll(cfg.Report.Dir, 0o755); err != nil {
					return fmt.Errorf("failed to create report directory: %w", err)
				}
				output = filepath.Join(cfg.Report.Dir, name)
			}
			if err := os.WriteFile(output, []byte(rep.HTML), 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Report written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data-path", "", "Path to the records array inside a JSON document")
	cmd.Flags().StringVarP(&strategyName, "strategy", "s", "", "Include a conversion summary for this strategy")
	cmd.Flags().StringVar(&title, "title", "", "Report title")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output HTML file (default: <input>_report.html under REPORT_DIR)")

	return cmd
}

func loadTable(path, dataPath string) (*table.Table, error) {
	reader := file.NewReader(path)
	reader.DataPath = dataPath
	return reader.Read()
}

func writeTable(t *table.Table, output string) error {
	if output == "" {
		return printJSON(t)
	}
	if err := file.Write(t, output); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Written to %s\n", output)
	return nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
