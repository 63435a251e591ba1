package main

import (
	"fmt"
	"strconv"
	"time"

	"git.0xdad.com/tblyler/medicate/daily"
	"git.0xdad.com/tblyler/medicate/db"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Record and review the doses taken",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add",
		Short: "Record a dose, prompting for the details. Date and time default to now.",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			now := time.Now()

			date := a.prompt.ask("date (YYYY-MM-DD)")
			if date == "" {
				date = now.Format(daily.DateLayout)
			}

			if !daily.ValidDate(date) {
				return fmt.Errorf("date %q must be YYYY-MM-DD", date)
			}

			at := a.prompt.ask("time (HH:MM)")
			if at == "" {
				at = now.Format(daily.TimeLayout)
			}

			if !daily.ValidTime(at) {
				return fmt.Errorf("time %q must be HH:MM", at)
			}

			medicineID, err := a.prompt.require("medicine id")
			if err != nil {
				return err
			}

			rawAmount, err := a.prompt.require("amount")
			if err != nil {
				return err
			}

			amount, err := parseAmount("amount", rawAmount)
			if err != nil {
				return err
			}

			input := db.DosageHistoryInput{
				Date:        date,
				Time:        at,
				MedicineID:  medicineID,
				Description: a.prompt.ask("description"),
				Amount:      amount,
			}

			id, err := a.repos.Dosages.Create(cmd.Context(), input)
			if err != nil {
				return err
			}

			a.log("recorded dose id", id)

			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List doses taken, most recent first",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			history, err := a.repos.Dosages.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, h := range history {
				a.log(h.ID, h.Date, h.Time, h.MedicineID, "x"+strconv.FormatFloat(h.Amount, 'f', -1, 64), h.Description)
			}

			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recorded dose",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			return a.repos.Dosages.Delete(cmd.Context(), args[0])
		}),
	})

	return cmd
}
