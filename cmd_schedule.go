package main

import (
	"fmt"
	"strconv"
	"time"

	"git.0xdad.com/tblyler/medicate/daily"
	"git.0xdad.com/tblyler/medicate/db"
	"github.com/spf13/cobra"
)

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Manage the daily medicine schedule",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add",
		Short: "Schedule a medicine at a time of day, prompting for the details",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			at, err := a.prompt.require("time (HH:MM)")
			if err != nil {
				return err
			}

			if !daily.ValidTime(at) {
				return fmt.Errorf("time %q must be HH:MM", at)
			}

			medicineID, err := a.prompt.require("medicine id")
			if err != nil {
				return err
			}

			medicine, err := a.repos.Medicines.GetByID(cmd.Context(), medicineID)
			if err != nil {
				return fmt.Errorf("failed to lookup medicine %s: %w", medicineID, err)
			}

			if medicine == nil {
				return fmt.Errorf("medicine %s doesn't exist", medicineID)
			}

			rawAmount, err := a.prompt.require("amount")
			if err != nil {
				return err
			}

			amount, err := parseAmount("amount", rawAmount)
			if err != nil {
				return err
			}

			input := db.ScheduleInput{
				Time:        at,
				MedicineID:  medicineID,
				Description: a.prompt.ask("description"),
				Amount:      amount,
			}

			id, err := a.repos.Schedules.Create(cmd.Context(), input)
			if err != nil {
				return err
			}

			a.log("created schedule id", id)

			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List schedules by time of day",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			schedules, err := a.repos.Schedules.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, s := range schedules {
				a.log(s.ID, s.Time, s.MedicineID, "x"+strconv.FormatFloat(s.Amount, 'f', -1, 64), s.Description)
			}

			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			return a.repos.Schedules.Delete(cmd.Context(), args[0])
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "daily [date]",
		Short: "Show the schedule grouped by time of day",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			date := time.Now().Format(daily.DateLayout)
			if len(args) == 1 {
				date = args[0]
			}

			if !daily.ValidDate(date) {
				return fmt.Errorf("date %q must be YYYY-MM-DD", date)
			}

			view, err := daily.GetDailySchedule(cmd.Context(), date, a.repos.Schedules, a.repos.Medicines)
			if err != nil {
				return err
			}

			a.log(view.Date)
			for _, slot := range view.Schedules {
				a.log(slot.Time)
				for _, m := range slot.Medicines {
					name := "unknown medicine"
					if m.Medicine != nil {
						name = m.Medicine.String()
					}

					a.log("  ", name, "x"+strconv.FormatFloat(m.Amount, 'f', -1, 64))
				}
			}

			return nil
		}),
	})

	return cmd
}
