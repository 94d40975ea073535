package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/dukerupert/familyhub/internal/export"
	"github.com/dukerupert/familyhub/internal/grocery"
	"github.com/dukerupert/familyhub/internal/model"
	"github.com/dukerupert/familyhub/internal/shopping"
	"github.com/dukerupert/familyhub/internal/store"
)

type generateOptions struct {
	start  string
	end    string
	user   string
	format string
	pdf    string
}

func newGenerateCommand(opts *rootOptions) *cobra.Command {
	g := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a shopping list from the meal plans in a date range",
		Long: `Build and store a shopping list from every planned meal between --start
and --end inclusive. --user takes a numeric id or a username.

Example:
  familyhub generate --start 2024-03-01 --end 2024-03-07 --user sarah_johnson
  familyhub generate --start 2024-03-01 --end 2024-03-07 --user 1 --pdf week.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.format != "text" && g.format != "json" {
				return fmt.Errorf("invalid format %q: must be text or json", g.format)
			}
			db, err := opts.openDB()
			if err != nil {
				return err
			}
			defer db.Close()
			return runGenerate(cmd.Context(), db, opts, g, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&g.start, "start", "", "first day, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&g.end, "end", "", "last day, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&g.user, "user", "", "owning user id or username (required)")
	cmd.Flags().StringVar(&g.format, "format", "text", "output format (text|json)")
	cmd.Flags().StringVar(&g.pdf, "pdf", "", "also write the list as a PDF to this path")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runGenerate(ctx context.Context, db *sql.DB, opts *rootOptions, g *generateOptions, out io.Writer) error {
	users := store.NewUserStore(db)
	userID, err := resolveUser(ctx, users, g.user)
	if err != nil {
		return err
	}

	gen := shopping.NewGenerator(store.NewMealPlanStore(db), store.NewMealStore(db), store.NewShoppingStore(db),
		shopping.WithTimeout(opts.cfg.GenerateTimeout),
		shopping.WithLogger(opts.logger.With("component", "generator")),
		shopping.WithUsers(users),
	)
	list, err := gen.Generate(ctx, shopping.GenerateRequest{StartDate: g.start, EndDate: g.end, UserID: userID})
	if err != nil {
		return err
	}

	if g.pdf != "" {
		if err := writePDF(g.pdf, *list); err != nil {
			return err
		}
		opts.logger.Info("wrote pdf", "path", g.pdf)
	}

	if g.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	printList(out, *list)
	return nil
}

func resolveUser(ctx context.Context, users *store.UserStore, ref string) (int64, error) {
	var (
		u   *model.User
		err error
	)
	if id, perr := strconv.ParseInt(ref, 10, 64); perr == nil {
		u, err = users.GetByID(ctx, id)
	} else {
		u, err = users.GetByUsername(ctx, ref)
	}
	if err != nil {
		return 0, err
	}
	if u == nil {
		return 0, fmt.Errorf("user %q not found", ref)
	}
	return u.ID, nil
}

func writePDF(path string, list model.EnrichedShoppingList) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}
	if err := export.ShoppingListPDF(f, list); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printList(w io.Writer, list model.EnrichedShoppingList) {
	fmt.Fprintf(w, "%s (#%d)\n", list.Name, list.ID)
	if len(list.Items) == 0 {
		fmt.Fprintln(w, "  no planned meals in range")
		return
	}
	for _, sec := range grocery.GroupByAisle(list.Items) {
		fmt.Fprintf(w, "\n%s\n", sec.Aisle)
		for _, item := range sec.Items {
			fmt.Fprintf(w, "  [ ] %s\n", item.Name)
		}
	}
}
