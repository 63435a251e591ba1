package main

import (
	"context"
	"fmt"
	"strconv"

	"git.0xdad.com/tblyler/medicate/db"
	"github.com/spf13/cobra"
)

func parseAmount(label, raw string) (float64, error) {
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q is not a number: %w", label, raw, err)
	}

	if amount < 0 {
		return 0, fmt.Errorf("%s must not be negative, got %v", label, amount)
	}

	return amount, nil
}

func printMedicine(a *app, m db.Medicine) {
	a.log(m.ID, m.String(), "stock", strconv.FormatFloat(m.Stock, 'f', -1, 64))
}

func medicineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "medicine",
		Short: "Manage medicines and their stock",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add",
		Short: "Add a medicine, prompting for its details",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			name, err := a.prompt.require("name")
			if err != nil {
				return err
			}

			rawDose, err := a.prompt.require("dose")
			if err != nil {
				return err
			}

			dose, err := parseAmount("dose", rawDose)
			if err != nil {
				return err
			}

			unit, err := a.prompt.require("unit")
			if err != nil {
				return err
			}

			stock := 0.0
			if rawStock := a.prompt.ask("stock"); rawStock != "" {
				if stock, err = parseAmount("stock", rawStock); err != nil {
					return err
				}
			}

			input := db.MedicineInput{Name: name, Dose: dose, Unit: unit, Stock: stock}

			id, err := a.repos.Medicines.Create(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("failed to add medicine %s: %w", name, err)
			}

			a.log("created medicine id", id)

			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List medicines by name",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
			medicines, err := a.repos.Medicines.List(cmd.Context())
			if err != nil {
				return err
			}

			for _, m := range medicines {
				printMedicine(a, m)
			}

			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a medicine",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			m, err := a.repos.Medicines.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if m == nil {
				return fmt.Errorf("medicine %s does not exist", args[0])
			}

			printMedicine(a, *m)

			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a medicine",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			return a.repos.Medicines.Delete(cmd.Context(), args[0])
		}),
	})

	cmd.AddCommand(stockCmd("add-stock", "Increase the stock of a medicine", func(a *app) stockChange {
		return a.repos.Medicines.AddStock
	}))
	cmd.AddCommand(stockCmd("reduce-stock", "Decrease the stock of a medicine", func(a *app) stockChange {
		return a.repos.Medicines.ReduceStock
	}))

	return cmd
}

type stockChange = func(ctx context.Context, id string, amount float64) (bool, error)

func stockCmd(use, short string, change func(a *app) stockChange) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id> <amount>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
			amount, err := parseAmount("amount", args[1])
			if err != nil {
				return err
			}

			found, err := change(a)(cmd.Context(), args[0], amount)
			if err != nil {
				return err
			}

			if !found {
				return fmt.Errorf("medicine %s does not exist", args[0])
			}

			m, err := a.repos.Medicines.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if m != nil {
				printMedicine(a, *m)
			}

			return nil
		}),
	}
}
