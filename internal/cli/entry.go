package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/luftbuch/luftbuch/internal/sqlite"
	"github.com/luftbuch/luftbuch/pkg/types"
)

func newEntryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Manage ventilation entries",
	}
	cmd.AddCommand(newEntryAddCmd())
	cmd.AddCommand(newEntryListCmd())
	cmd.AddCommand(newEntryDeleteCmd())
	return cmd
}

func newEntryAddCmd() *cobra.Command {
	var (
		apartmentID string
		date        string
		timeOfDay   string
		rooms       []string
		ventType    string
		duration    int
		tempBefore  float64
		humBefore   float64
		tempAfter   float64
		humAfter    float64
		notes       string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a ventilation act",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				entry := types.VentilationEntry{
					ApartmentID:     apartmentID,
					Date:            date,
					Time:            timeOfDay,
					Rooms:           rooms,
					VentilationType: ventType,
					Duration:        duration,
					TempBefore:      tempBefore,
					HumidityBefore:  humBefore,
					Notes:           notes,
				}
				if cmd.Flags().Changed("temp-after") {
					entry.TempAfter = &tempAfter
				}
				if cmd.Flags().Changed("humidity-after") {
					entry.HumidityAfter = &humAfter
				}

				id, err := store.AddEntry(&entry)
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, entry)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Entry %d recorded\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&apartmentID, "apartment", "", "apartment id (required)")
	cmd.Flags().StringVar(&date, "date", "", "date of the act, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&timeOfDay, "time", "", "time of the act, HH:MM (required)")
	cmd.Flags().StringSliceVar(&rooms, "room", nil, "room name; repeat for cross-ventilation (required)")
	cmd.Flags().StringVar(&ventType, "type", types.VentilationBurst, "ventilation technique")
	cmd.Flags().IntVar(&duration, "duration", 0, "duration in minutes, 1-60 (required)")
	cmd.Flags().Float64Var(&tempBefore, "temp-before", 0, "temperature before, °C (required)")
	cmd.Flags().Float64Var(&humBefore, "humidity-before", 0, "relative humidity before, % (required)")
	cmd.Flags().Float64Var(&tempAfter, "temp-after", 0, "temperature after, °C")
	cmd.Flags().Float64Var(&humAfter, "humidity-after", 0, "relative humidity after, %")
	cmd.Flags().StringVar(&notes, "notes", "", "free-text note")
	cmd.MarkFlagRequired("apartment")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("time")
	cmd.MarkFlagRequired("room")
	cmd.MarkFlagRequired("duration")
	cmd.MarkFlagRequired("temp-before")
	cmd.MarkFlagRequired("humidity-before")
	return cmd
}

func newEntryListCmd() *cobra.Command {
	var (
		apartmentID string
		from, to    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ventilation entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				var entries []types.VentilationEntry
				var err error
				switch {
				case apartmentID != "" && (from != "" || to != ""):
					entries, err = store.EntriesByDateRange(apartmentID, from, to)
				case apartmentID != "":
					entries, err = store.EntriesByApartment(apartmentID)
				default:
					entries, err = store.Entries()
				}
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, entries)
				}
				for _, e := range entries {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s %s\t%s\t%s\t%d min\n",
						e.ID, e.Date, e.Time, strings.Join(e.Rooms, ", "), e.VentilationType, e.Duration)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&apartmentID, "apartment", "", "filter by apartment id")
	cmd.Flags().StringVar(&from, "from", "", "filter: first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "filter: last date, YYYY-MM-DD")
	return cmd
}

func newEntryDeleteCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a ventilation entry (tombstoned in the deletion log)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid entry id %q", args[0])
			}
			return withStore(func(store *sqlite.Store) error {
				if err := store.DeleteEntry(id, reason); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Entry %d deleted\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "reason recorded in the deletion log")
	return cmd
}
