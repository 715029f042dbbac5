package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hray3182/nudge/internal/export"
	"github.com/hray3182/nudge/internal/format"
	"github.com/hray3182/nudge/internal/models"
	"github.com/hray3182/nudge/internal/recurrence"
	"github.com/hray3182/nudge/internal/reminder"
)

// draftFlags are the reminder fields shared by add and edit.
type draftFlags struct {
	title  string
	date   string
	time   string
	repeat string
	end    string
	count  int
	until  string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD, today or tomorrow (add defaults to today)")
	cmd.Flags().StringVar(&f.time, "time", "", "time as HH:MM, empty for all day")
	cmd.Flags().StringVar(&f.repeat, "repeat", "", "none, daily, weekdays, weekly, biweekly, monthly or yearly")
	cmd.Flags().StringVar(&f.end, "end", "", "never, after_occurrences or on_date")
	cmd.Flags().IntVar(&f.count, "count", 0, "occurrences for --end after_occurrences")
	cmd.Flags().StringVar(&f.until, "until", "", "last date for --end on_date")
}

// apply overlays the flags the user set onto d.
func (f *draftFlags) apply(cmd *cobra.Command, d *reminder.Draft, now time.Time) {
	changed := cmd.Flags().Changed
	if changed("title") {
		d.Title = f.title
	}
	if changed("date") {
		d.Date = resolveDate(f.date, now)
	}
	if changed("time") {
		d.Time = f.time
	}
	if changed("repeat") {
		d.RecurrenceType = models.RecurrenceType(strings.ToLower(f.repeat))
	}
	if changed("end") {
		d.EndType = models.EndType(strings.ToLower(f.end))
		d.EndValue = nil
	}
	switch {
	case changed("count"):
		if !changed("end") {
			d.EndType = models.EndAfterOccurrences
		}
		d.EndValue = models.CountEnd(f.count)
	case changed("until"):
		if !changed("end") {
			d.EndType = models.EndOnDate
		}
		d.EndValue = models.DateEnd(resolveDate(f.until, now))
	}
}

func resolveDate(s string, now time.Time) string {
	switch strings.ToLower(s) {
	case "today":
		return models.FormatDate(now)
	case "tomorrow":
		return models.FormatDate(models.CivilDate(now).AddDate(0, 0, 1))
	}
	return s
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	flags := &draftFlags{}
	cmd := &cobra.Command{
		Use:     "add <title>",
		Short:   "Add a reminder",
		Example: "  nudge add --date tomorrow --time 15:30 Dentist\n  nudge add --time 9:00 --repeat weekdays --count 10 Stand-up",
		Args:    cobra.MinimumNArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			now := time.Now().In(a.cfg.Location())
			d := reminder.Draft{Title: strings.Join(args, " "), Date: models.FormatDate(now)}
			flags.apply(cmd, &d, now)

			r, err := a.svc.Add(cmd.Context(), d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", describe(r))
			return nil
		}),
	}
	flags.register(cmd)
	return cmd
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	flags := &draftFlags{}
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			id, err := a.svc.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			current, err := a.svc.Get(ctx, id)
			if err != nil {
				return err
			}

			d := reminder.DraftOf(current)
			flags.apply(cmd, &d, time.Now().In(a.cfg.Location()))
			r, err := a.svc.Update(ctx, id, d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", describe(r))
			return nil
		}),
	}
	cmd.Flags().StringVar(&flags.title, "title", "", "new title")
	flags.register(cmd)
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all reminders",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			return writeTable(cmd.OutOrStdout(), a.svc.List(cmd.Context()))
		}),
	}
}

func newTodayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Print today's reminders",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), dailySummaryText(time.Now().In(a.cfg.Location()), a.svc.DueToday(cmd.Context())))
			return nil
		}),
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a reminder",
		Args:    cobra.ExactArgs(1),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			id, err := a.svc.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			ok, err := a.svc.Delete(ctx, id)
			if err != nil {
				return err
			}
			if !ok {
				return reminder.ErrNotFound
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		}),
	}
}

func newSnoozeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "snooze <id> <minutes>",
		Short: "Reschedule a reminder to now plus minutes",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, args []string) error {
			minutes, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("minutes %q: %w", args[1], err)
			}
			ctx := cmd.Context()
			id, err := a.svc.Resolve(ctx, args[0])
			if err != nil {
				return err
			}
			ok, err := a.svc.Snooze(ctx, id, minutes)
			if err != nil {
				return err
			}
			if !ok {
				return reminder.ErrNotFound
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snoozed %s for %d minutes\n", id, minutes)
			return nil
		}),
	}
}

func newSweepCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove notified reminders dated before today",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			removed, err := a.svc.Sweep(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d reminders\n", removed)
			return nil
		}),
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export pending reminders as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: withApp(opts, func(cmd *cobra.Command, a *app, _ []string) error {
			var w io.Writer = cmd.OutOrStdout()
			if outPath != "-" {
				f, err := os.Create(outPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outPath, err)
				}
				defer f.Close()
				w = f
			}
			n, err := export.WriteICS(w, a.svc.List(cmd.Context()), time.Now(), a.cfg.Location())
			if err != nil {
				return err
			}
			if outPath != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d reminders to %s\n", n, outPath)
			}
			return nil
		}),
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")
	return cmd
}

func writeTable(w io.Writer, reminders []models.Reminder) error {
	if len(reminders) == 0 {
		_, err := fmt.Fprintln(w, "No reminders")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tTITLE\tREPEAT\tSTATUS")
	for _, r := range reminders {
		status := "pending"
		if r.NotifiedIndividually {
			status = "notified"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Date, format.TimeAMPM(r.Time), r.Title, recurrence.Describe(r), status)
	}
	return tw.Flush()
}

func describe(r models.Reminder) string {
	return fmt.Sprintf("%s: %s on %s at %s (%s)", r.ID, r.Title, r.Date, format.TimeAMPM(r.Time), recurrence.Describe(r))
}
