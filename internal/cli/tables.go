package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"gradesdash/internal/services"
)

var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	missingColor = color.New(color.FgHiBlack)
	cardColor    = color.New(color.FgGreen, color.Bold)
)

const missingCell = "-"

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	var student, year string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print subject finals and the grade average of one student and year",
		Long: `Print the summary rows for the selected student and school year, followed
by the student's overall average. Empty flags pick the first student and year.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.dashboard(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			filter, err := svc.Resolve(ctx, services.Filter{Student: student, Year: year, Lang: opts.lang})
			if err != nil {
				return err
			}
			view, err := svc.SummaryRows(ctx, filter)
			if err != nil {
				return err
			}
			card, err := svc.StudentCard(ctx, filter.Student, opts.lang)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printTable(out, view)
			cardColor.Fprintln(out, card.Label)
			return nil
		},
	}
	cmd.Flags().StringVar(&student, "student", "", "student name")
	cmd.Flags().StringVar(&year, "year", "", "school year label, e.g. 1st")
	return cmd
}

func newExamsCommand(opts *rootOptions) *cobra.Command {
	var student, year, subject string

	cmd := &cobra.Command{
		Use:   "exams",
		Short: "Print the exam scores of one subject",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.dashboard(cmd)
			if err != nil {
				return err
			}
			view, err := svc.ExamRows(cmd.Context(), services.Filter{
				Student: student,
				Year:    year,
				Subject: subject,
				Lang:    opts.lang,
			})
			if err != nil {
				return err
			}
			printTable(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().StringVar(&student, "student", "", "student name")
	cmd.Flags().StringVar(&year, "year", "", "school year label")
	cmd.Flags().StringVar(&subject, "subject", "", "subject name")
	return cmd
}

// printTable writes a titled table. Missing scores are shown dimmed.
func printTable(w io.Writer, view services.TableView) {
	if view.Name != "" {
		titleColor.Fprintln(w, view.Name)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(view.Headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range view.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			if c == "" {
				c = missingColor.Sprint(missingCell)
			}
			cells[i] = c
		}
		table.Append(cells)
	}
	table.Render()
	fmt.Fprintln(w)
}
