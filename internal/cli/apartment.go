package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/luftbuch/luftbuch/internal/sqlite"
	"github.com/luftbuch/luftbuch/pkg/types"
)

func newApartmentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apartment",
		Short: "Manage apartments and their rooms",
	}
	cmd.AddCommand(newApartmentAddCmd())
	cmd.AddCommand(newApartmentListCmd())
	cmd.AddCommand(newApartmentShowCmd())
	cmd.AddCommand(newApartmentUpdateCmd())
	cmd.AddCommand(newApartmentDeleteCmd())
	cmd.AddCommand(newApartmentRoomCmd())
	return cmd
}

func newApartmentAddCmd() *cobra.Command {
	var (
		name    string
		address string
		size    float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register an apartment with the default room set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				apartment := types.Apartment{
					ID:      types.NewApartmentID(),
					Name:    name,
					Address: address,
					Size:    size,
				}
				if err := store.AddApartment(&apartment); err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, apartment)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Apartment %s registered\n", apartment.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&address, "address", "", "postal address")
	cmd.Flags().Float64Var(&size, "size", 0, "floor area in m² (required)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("size")
	return cmd
}

func newApartmentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List apartments",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				apartments, err := store.Apartments()
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, apartments)
				}
				for _, a := range apartments {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%.1f m²\n", a.ID, a.Name, a.Address, a.Size)
				}
				return nil
			})
		},
	}
}

func newApartmentShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an apartment with its rooms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				apartment, err := store.Apartment(args[0])
				if err != nil {
					return err
				}
				if flags.jsonMode {
					return printJSON(cmd, apartment)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%.1f m²\n",
					apartment.ID, apartment.Name, apartment.Address, apartment.Size)
				for _, r := range apartment.SortedRooms() {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\t%s %s\n", r.ID, r.Icon, r.Name)
				}
				return nil
			})
		},
	}
}

func newApartmentUpdateCmd() *cobra.Command {
	var (
		name    string
		address string
		size    float64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an apartment (whole-record replacement)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				apartment, err := store.Apartment(args[0])
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("name") {
					apartment.Name = name
				}
				if cmd.Flags().Changed("address") {
					apartment.Address = address
				}
				if cmd.Flags().Changed("size") {
					apartment.Size = size
				}
				if err := store.UpdateApartment(&apartment); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Apartment %s updated\n", apartment.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&address, "address", "", "postal address")
	cmd.Flags().Float64Var(&size, "size", 0, "floor area in m²")
	return cmd
}

func newApartmentDeleteCmd() *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an apartment (entries are kept as historical evidence)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				if err := store.DeleteApartment(args[0], reason); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Apartment %s deleted\n", args[0])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "reason recorded in the deletion log")
	return cmd
}

func newApartmentRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Manage an apartment's room definitions",
	}
	cmd.AddCommand(newRoomAddCmd())
	cmd.AddCommand(newRoomUpdateCmd())
	cmd.AddCommand(newRoomRemoveCmd())
	cmd.AddCommand(newRoomResetCmd())
	return cmd
}

func newRoomAddCmd() *cobra.Command {
	var (
		name string
		icon string
	)

	cmd := &cobra.Command{
		Use:   "add <apartment-id>",
		Short: "Add a room to an apartment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				apartment, err := store.Apartment(args[0])
				if err != nil {
					return err
				}
				room := apartment.AddRoom(name, icon)
				if err := store.UpdateApartment(&apartment); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Room %s added\n", room.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "room name (required)")
	cmd.Flags().StringVar(&icon, "icon", "", "icon glyph")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newRoomUpdateCmd() *cobra.Command {
	var (
		name string
		icon string
	)

	cmd := &cobra.Command{
		Use:   "update <apartment-id> <room-id>",
		Short: "Rename a room or change its icon",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				apartment, err := store.Apartment(args[0])
				if err != nil {
					return err
				}
				if err := apartment.UpdateRoom(args[1], name, icon); err != nil {
					return err
				}
				if err := store.UpdateApartment(&apartment); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Room %s updated\n", args[1])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "room name (required)")
	cmd.Flags().StringVar(&icon, "icon", "", "icon glyph")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newRoomRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <apartment-id> <room-id>",
		Short: "Remove a room from an apartment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				apartment, err := store.Apartment(args[0])
				if err != nil {
					return err
				}
				if err := apartment.RemoveRoom(args[1]); err != nil {
					return err
				}
				if err := store.UpdateApartment(&apartment); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Room %s removed\n", args[1])
				return nil
			})
		},
	}
}

func newRoomResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <apartment-id>",
		Short: "Reset an apartment's rooms to the default set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *sqlite.Store) error {
				apartment, err := store.Apartment(args[0])
				if err != nil {
					return err
				}
				apartment.ResetRooms()
				if err := store.UpdateApartment(&apartment); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Rooms reset for %s\n", args[0])
				return nil
			})
		},
	}
}
