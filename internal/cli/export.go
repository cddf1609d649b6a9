package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"gradesdash/internal/config"
	"gradesdash/internal/services"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var (
		output  string
		format  string
		student string
		year    string
		raw     bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the summary table as CSV or XLSX",
		Long: `Write the summary table to a file, or to stdout with --output -.
The format follows the file extension unless --format is given. Headers are
translated to --lang; --raw keeps the source column names.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
			}
			svc, err := opts.dashboard(cmd)
			if err != nil {
				return err
			}

			var write func(context.Context, io.Writer, services.ExportFilter) error
			switch format {
			case "csv":
				write = svc.ExportCSV
			case "xlsx":
				write = svc.ExportXLSX
			default:
				return fmt.Errorf("unsupported export format %q (use csv or xlsx)", format)
			}

			filter := services.ExportFilter{Student: student, Year: year, Lang: opts.lang}
			if raw {
				filter.Lang = ""
			}

			if output == "-" {
				return write(cmd.Context(), cmd.OutOrStdout(), filter)
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := write(cmd.Context(), f, filter); err != nil {
				f.Close()
				os.Remove(output)
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "grades_summary.csv", "output file, or - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "csv or xlsx")
	cmd.Flags().StringVar(&student, "student", "", "only this student")
	cmd.Flags().StringVar(&year, "year", "", "only this school year")
	cmd.Flags().BoolVar(&raw, "raw", false, "keep the source column names")
	return cmd
}

func newHashPasswordCommand() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for auth.password",
		Long: `Print a bcrypt hash usable as the dashboard password. The password is
read from the first argument or, when absent, from the first line of stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && err != io.EOF {
					return err
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return fmt.Errorf("empty password")
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", bcrypt.DefaultCost, "bcrypt cost")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (commit %s, built %s)\n",
				config.AppName, config.Version, config.Commit, config.BuildTime)
		},
	}
}
