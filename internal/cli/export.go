package cli

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mvp-joe/phpscope/internal/export"
	"github.com/mvp-joe/phpscope/internal/model"
	"github.com/mvp-joe/phpscope/internal/scan"
	"github.com/mvp-joe/phpscope/internal/storage"
)

var (
	formatFlag string
	outFlag    string
	dbFlag     string
	globFlag   string
	quietFlag  bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export PATH",
	Short: "Scan a PHP file and export its symbol report",
	Long: `Export scans a PHP source file and renders a report of every symbol the
file declares. Pointing it at a directory scans each file matching the
--glob pattern independently.

Examples:
  # Human-readable report for one file
  phpscope export src/UserService.php

  # Machine-readable report
  phpscope export src/UserService.php --format json

  # Scan a source tree and persist reports to SQLite
  phpscope export src/ --db reports.db --quiet
`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&formatFlag, "format", "f", "text", "output format: text or json")
	exportCmd.Flags().StringVarP(&outFlag, "out", "o", "", "write output to file instead of stdout")
	exportCmd.Flags().StringVar(&dbFlag, "db", "", "also persist reports to a SQLite database at this path")
	exportCmd.Flags().StringVar(&globFlag, "glob", "**/*.php", "file pattern for directory scans")
	exportCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress output")

	viper.BindPFlag("format", exportCmd.Flags().Lookup("format"))
}

func runExport(cmd *cobra.Command, args []string) error {
	format := formatFlag
	if !cmd.Flags().Changed("format") {
		if v := viper.GetString("format"); v != "" {
			format = v
		}
	}
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown format %q (expected text or json)", format)
	}

	target := args[0]
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", target, err)
	}

	files := []string{target}
	if info.IsDir() {
		if files, err = matchFiles(target, globFlag); err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no files under %s match %s", target, globFlag)
		}
	}

	var writer *storage.ReportWriter
	if dbFlag != "" {
		db, err := storage.Open(dbFlag)
		if err != nil {
			return err
		}
		defer db.Close()
		writer = storage.NewReportWriter(db)
	}

	var bar *progressbar.ProgressBar
	if info.IsDir() && !quietFlag {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("scanning"),
		)
	}

	reports := make([]*model.FileReport, 0, len(files))
	for _, file := range files {
		// Each file scans against a fresh namespace so scans stay independent.
		report, err := scan.ExportFile(file)
		if err != nil {
			return fmt.Errorf("failed to scan %s: %w", file, err)
		}
		reports = append(reports, report)

		if writer != nil {
			if _, err := writer.WriteReport(report); err != nil {
				return fmt.Errorf("failed to store report for %s: %w", file, err)
			}
		}
		if bar != nil {
			bar.Add(1)
		}
	}
	if bar != nil {
		fmt.Fprintln(os.Stderr)
	}

	rendered, err := renderReports(reports, format)
	if err != nil {
		return err
	}

	if outFlag != "" {
		if err := os.WriteFile(outFlag, rendered, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outFlag, err)
		}
		return nil
	}
	_, err = os.Stdout.Write(rendered)
	return err
}

func renderReports(reports []*model.FileReport, format string) ([]byte, error) {
	if format == "json" {
		if len(reports) == 1 {
			return export.JSON(reports[0])
		}
		out, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding reports: %w", err)
		}
		return append(out, '\n'), nil
	}

	var out []byte
	for i, r := range reports {
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, export.Text(r)...)
	}
	return out, nil
}

// matchFiles walks root and returns the files whose root-relative path
// matches the glob pattern, in stable order.
func matchFiles(root, pattern string) ([]string, error) {
	matcher, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}
	matchers := []glob.Glob{matcher}

	// "**/" should also match zero directories, so "**/*.php" covers files
	// directly under root.
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok {
		alt, err := glob.Compile(rest, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", pattern, err)
		}
		matchers = append(matchers, alt)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		for _, m := range matchers {
			if m.Match(filepath.ToSlash(rel)) {
				files = append(files, path)
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Strings(files)
	return files, nil
}
