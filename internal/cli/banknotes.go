package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/ottocollect/ottocollect/internal/server/models"
	"github.com/ottocollect/ottocollect/internal/server/paging"
	"github.com/spf13/cobra"
)

func (a *app) listBanknotesCommand() *cobra.Command {
	var filter models.BanknoteFilter
	var all bool

	cmd := &cobra.Command{
		Use:   "list-banknotes",
		Short: "List the catalog of one country",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.with(cmd, func(ctx context.Context, d *Deps) error {
				notes, err := d.Banknotes.List(ctx, filter)
				if err != nil {
					return err
				}

				pager := paging.NewPager(notes, d.PageSize, d.PageDelay, d.Clock)
				shown := a.printBanknotes(pager.Visible(), 0)
				for all && pager.HasMore() {
					if err := pager.LoadMore(ctx); err != nil {
						return err
					}
					shown = a.printBanknotes(pager.Visible(), shown)
				}
				if rest := len(notes) - shown; rest > 0 {
					fmt.Fprintf(a.out, "... %d more, pass --all to list everything\n", rest)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&filter.CountryID, "country", "", "country id")
	cmd.Flags().StringVar(&filter.Search, "search", "", "free text search")
	cmd.Flags().StringSliceVar(&filter.Categories, "category", nil, "category names")
	cmd.Flags().StringSliceVar(&filter.Types, "type", nil, "type names")
	cmd.Flags().StringVar(&filter.Sort, "sort", "", "extPick, faceValue, newest or sultan")
	cmd.Flags().BoolVar(&all, "all", false, "reveal every page")
	_ = cmd.MarkFlagRequired("country")
	return cmd
}

// printBanknotes prints visible[from:] and returns len(visible).
func (a *app) printBanknotes(visible []models.Banknote, from int) int {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	for _, b := range visible[from:] {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ExtendedPick, b.FaceValue, b.Category, b.SultanName)
	}
	tw.Flush()
	return len(visible)
}
