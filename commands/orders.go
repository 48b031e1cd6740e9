package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"rta-backend/configs"
	"rta-backend/entity"
	"rta-backend/repository"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newOrdersCommand() *cobra.Command {
	var restaurantID, status string
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "list orders stored in the database ledger",
		Long: `List orders stored in the database ledger.

Only useful when the server runs with LEDGER_BACKEND=db and DB_SOURCE points at a
file or a database server: the default in-memory ledger lives inside the server
process and cannot be read from here.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configs.LoadConfig()
			if hint := ledgerHint(cfg); hint != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), hint)
			}
			db, err := configs.ConnectionDB(cfg)
			if err != nil {
				return err
			}
			orders, err := repository.NewGormOrderRepository(db).List(cmd.Context(), repository.OrderFilter{
				RestaurantID: restaurantID,
				Status:       entity.OrderStatus(status),
			})
			if err != nil {
				return err
			}
			return renderOrders(cmd.OutOrStdout(), orders)
		},
	}
	cmd.Flags().StringVar(&restaurantID, "restaurant", "", "only orders of this restaurant id")
	cmd.Flags().StringVar(&status, "status", "", "only orders in this status")
	return cmd
}

// ledgerHint warns when the configuration cannot see the server's orders.
func ledgerHint(cfg *configs.Config) string {
	if !strings.EqualFold(cfg.LedgerBackend, "db") {
		return fmt.Sprintf("warning: LEDGER_BACKEND=%s keeps orders inside the server process; set LEDGER_BACKEND=db to list them here", cfg.LedgerBackend)
	}
	if strings.Contains(cfg.DBSource, ":memory:") || strings.Contains(cfg.DBSource, "mode=memory") {
		return "warning: DB_SOURCE is an in-memory database; point it at the server's database file or server"
	}
	return ""
}

func renderOrders(w io.Writer, orders []entity.Order) error {
	if w == nil {
		w = os.Stdout
	}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.ID,
			o.RestaurantID,
			o.CustomerName,
			o.Status.Label(),
			fmt.Sprintf("%.2f", o.Total),
			string(o.PaymentStatus),
			o.CreatedAt.Format("2006-01-02 15:04"),
		})
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Restaurant", "Customer", "Status", "Total", "Payment", "Created")
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}
