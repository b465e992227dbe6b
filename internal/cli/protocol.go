package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/luftbuch/luftbuch/internal/protocol"
	"github.com/luftbuch/luftbuch/internal/sqlite"
)

func newProtocolCmd() *cobra.Command {
	var (
		apartmentID string
		from, to    string
		out         string
	)

	cmd := &cobra.Command{
		Use:   "protocol",
		Short: "Generate the signed PDF ventilation protocol",
		Long: "Render the ventilation protocol for one apartment as a PDF with an\n" +
			"embedded SHA-256 digest of the canonical record serialization. The\n" +
			"digest can be recomputed from the same records to prove the document\n" +
			"was not altered after the fact.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (from == "") != (to == "") {
				return fmt.Errorf("--from and --to must be given together")
			}
			return withStore(func(store *sqlite.Store) error {
				apartment, err := store.Apartment(apartmentID)
				if err != nil {
					return err
				}

				var dateRange *protocol.DateRange
				if from != "" {
					dateRange = &protocol.DateRange{Start: from, End: to}
				}
				entries, err := store.EntriesByDateRange(apartmentID, from, to)
				if err != nil {
					return err
				}

				now := time.Now()
				pdf, digest, err := protocol.Generate(apartment, entries, dateRange, now)
				if err != nil {
					return err
				}

				if out == "" {
					out = protocol.Filename(apartment, dateRange, now)
				}
				if err := os.WriteFile(out, pdf, 0o644); err != nil {
					return fmt.Errorf("write protocol: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Protocol written to %s\nSHA-256: %s\n", out, digest)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&apartmentID, "apartment", "", "apartment id (required)")
	cmd.Flags().StringVar(&from, "from", "", "first date covered, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date covered, YYYY-MM-DD")
	cmd.Flags().StringVar(&out, "out", "", "output file (default: derived from apartment name)")
	cmd.MarkFlagRequired("apartment")
	return cmd
}
