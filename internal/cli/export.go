package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"shiftreport/internal/exporter"
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("branch", "b", "", "Branch to export (default: last used branch)")
	exportCmd.Flags().StringP("format", "f", "csv", "Output format: html, csv, xlsx or pdf")
	exportCmd.Flags().StringP("out", "o", "", "Output file, a directory, or - for stdout (default: report file name in the current directory)")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a branch report from the command line",
	Long: `Export the saved report of one branch without starting the server.
The branch's stored data is read as is; nothing is written back.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	branch, _ := cmd.Flags().GetString("branch")
	formatName, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	format, err := exporter.ParseFormat(formatName)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	app, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if branch == "" {
		branch = app.Store.Meta(ctx).LastBranch
	}
	if branch == "" {
		branch = app.Config.DefaultBranch
	}

	rec, ok := app.Store.Load(ctx, branch)
	if !ok {
		return fmt.Errorf("no saved report for branch %q", branch)
	}

	res, err := app.Exporter.Export(ctx, rec, format)
	if err != nil {
		if res.Notice.Message != "" {
			return fmt.Errorf("%s: %w", res.Notice.Message, err)
		}
		return err
	}

	if out == "-" {
		_, err := cmd.OutOrStdout().Write(res.Body)
		return err
	}
	path := resolveOutput(out, res.FileName)
	if err := writeFile(path, res.Body); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", res.Notice.Message, path)
	return nil
}

// resolveOutput picks the destination: the default file name when out is
// empty, inside out when it is a directory, out itself otherwise.
func resolveOutput(out, fileName string) string {
	if out == "" {
		return fileName
	}
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		return filepath.Join(out, fileName)
	}
	return out
}

func writeFile(path string, body []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(body); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
