package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/pacerhq/pacer/internal/cli"
	"github.com/pacerhq/pacer/internal/model"

	"github.com/spf13/cobra"
)

var (
	flagClientsStatus string
	flagClientsTop    int
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Show the client roster",
	RunE:  runClients,
}

func init() {
	rootCmd.AddCommand(clientsCmd)
	clientsCmd.Flags().StringVar(&flagClientsStatus, "status", "", "Filter by status: lead, active, inactive, churned")
	clientsCmd.Flags().IntVar(&flagClientsTop, "top", 20, "Show the top N clients by revenue")
}

func runClients(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	result, err := loadData(st)
	if err != nil {
		return err
	}
	if !result.ClientsFound {
		fmt.Println("\n  No clients export found.")
		return nil
	}

	clients := result.Clients.Clients
	if flagClientsStatus != "" {
		want := model.ClientStatus(flagClientsStatus)
		filtered := clients[:0:0]
		for _, c := range clients {
			if c.Status == want {
				filtered = append(filtered, c)
			}
		}
		clients = filtered
	}

	counts := map[model.ClientStatus]int{}
	var totalRevenue float64
	for _, c := range result.Clients.Clients {
		counts[c.Status]++
		totalRevenue += c.TotalRevenue
	}

	sort.Slice(clients, func(i, j int) bool {
		return clients[i].TotalRevenue > clients[j].TotalRevenue
	})
	if flagClientsTop > 0 && len(clients) > flagClientsTop {
		clients = clients[:flagClientsTop]
	}

	symbol := currencySymbol()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("CLIENTS  %d total", len(result.Clients.Clients))))
	fmt.Println()
	fmt.Printf("  %d lead · %d active · %d inactive · %d churned · %s lifetime revenue\n\n",
		counts[model.StatusLead], counts[model.StatusActive],
		counts[model.StatusInactive], counts[model.StatusChurned],
		cli.FormatMoney(symbol, totalRevenue))

	rows := make([][]string, 0, len(clients))
	for _, c := range clients {
		rows = append(rows, []string{
			clientLabel(c),
			c.Segment,
			string(c.Status),
			cli.FormatMoney(symbol, c.TotalRevenue),
			cli.FormatNumber(int64(c.Transactions)),
			clientAge(c, time.Now().UTC()),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Client", "Segment", "Status", "Revenue", "Orders", "Age"},
		Rows:    rows,
	}))
	fmt.Println()

	return nil
}

func clientLabel(c model.Client) string {
	if c.Name != "" {
		return truncName(c.Name, 28)
	}
	return c.ID
}

func clientAge(c model.Client, now time.Time) string {
	d := now.Sub(c.CreatedAt)
	months := int(d.Hours() / 24 / 30)
	if months >= 12 {
		return fmt.Sprintf("%dy %dmo", months/12, months%12)
	}
	if months > 0 {
		return fmt.Sprintf("%dmo", months)
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
