package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"rental-manager/core/config"
	"rental-manager/core/logger"
	"rental-manager/core/remote"
	"rental-manager/core/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// inventoryCmd groups the return-inventory client commands. They talk
// to a running rental-manager instance over its REST API.
var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Inspect and close return inventories",
}

var inventoryStatusCmd = &cobra.Command{
	Use:   "status [event-id]",
	Short: "Show the return inventory of an event",
	Long:  `Fetches the return inventory and prints its progress and discrepancies.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInventoryStatus(cmd.Context(), args[0])
	},
}

var terminateYes bool

var inventoryTerminateCmd = &cobra.Command{
	Use:   "terminate [event-id]",
	Short: "Close the return inventory of an event",
	Long: `Closes the return inventory permanently. Broken or missing items
trigger a confirmation prompt; pass --yes to skip it.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInventoryTerminate(cmd.Context(), args[0])
	},
}

func init() {
	inventoryTerminateCmd.Flags().BoolVarP(&terminateYes, "yes", "y", false,
		"terminate without confirmation prompts")
	inventoryCmd.AddCommand(inventoryStatusCmd)
	inventoryCmd.AddCommand(inventoryTerminateCmd)
	RootCmd.AddCommand(inventoryCmd)
}

func openRemoteSession(ctx context.Context, rawID string) (*session.Session, error) {
	id, err := strconv.ParseUint(rawID, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid event id %q", rawID)
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console"})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	client := remote.NewClient(cfg.Remote, logg)
	return session.Open(ctx, client, uint(id), session.Config{Logger: logg})
}

func runInventoryStatus(ctx context.Context, rawID string) error {
	s, err := openRemoteSession(ctx, rawID)
	if err != nil {
		return err
	}
	defer s.Close()

	printInventory(s)
	return nil
}

func printInventory(s *session.Session) {
	res := s.Resource()

	fmt.Println("\n--- Return Inventory ---")
	fmt.Printf("Event:          #%d %s\n", res.ID, res.Title)
	if len(res.Beneficiaries) > 0 {
		names := make([]string, 0, len(res.Beneficiaries))
		for _, b := range res.Beneficiaries {
			names = append(names, b.FullName)
		}
		fmt.Printf("Beneficiaries:  %s\n", strings.Join(names, ", "))
	}
	fmt.Printf("Period:         %s - %s\n",
		res.StartDate.Format("2006-01-02"), res.EndDate.Format("2006-01-02"))
	fmt.Printf("Status:         %s\n", s.Status())
	fmt.Println("------------------------")

	complete := 0
	for _, m := range res.Materials {
		rec, ok := s.Record(m.ID)
		if !ok {
			continue
		}
		marker := " "
		if s.IsComplete(m.ID) {
			marker = "x"
			complete++
		}
		fmt.Printf("[%s] %-28s %d/%d back", marker, m.Reference, rec.Actual, rec.Awaited)
		if rec.Broken > 0 {
			fmt.Printf(", %d broken", rec.Broken)
		}
		fmt.Println()
	}
	fmt.Println("------------------------")
	fmt.Printf("Complete:       %d/%d materials\n", complete, len(res.Materials))

	report := s.Discrepancies()
	if report.Clean() {
		fmt.Println("No discrepancy.")
		return
	}

	fmt.Println("\nDiscrepancies:")
	for _, d := range report.Discrepancies {
		fmt.Printf("- %s (%s): %d missing, %d broken (%s)\n",
			d.Name, d.Reference, d.Missing, d.Broken, d.ReplacementValue.StringFixed(2))
	}
	fmt.Printf("Total replacement value: %s\n", report.TotalReplacementValue.StringFixed(2))
}

func runInventoryTerminate(ctx context.Context, rawID string) error {
	s, err := openRemoteSession(ctx, rawID)
	if err != nil {
		return err
	}
	defer s.Close()

	if s.Status() == session.StatusTerminated {
		return fmt.Errorf("return inventory of event %s is already terminated", rawID)
	}

	printInventory(s)

	if gate := s.Gate(); !gate.Clean() && !terminateYes {
		reader := bufio.NewReader(os.Stdin)
		if len(gate.Broken) > 0 {
			if !confirm(reader, "Some items came back broken. They will be flagged out of order. Continue?") {
				fmt.Println("Aborted.")
				return nil
			}
		}
		if len(gate.Incomplete) > 0 {
			if !confirm(reader, "Some items are still missing. They will leave the stock for good. Continue?") {
				fmt.Println("Aborted.")
				return nil
			}
		}
	}

	if err := s.Terminate(ctx); err != nil {
		if errs := s.ValidationErrors(); len(errs) > 0 {
			fmt.Println("The server rejected the quantities:")
			for field, messages := range errs {
				fmt.Printf("- %s: %s\n", field, strings.Join(messages, "; "))
			}
		}
		return fmt.Errorf("failed to terminate: %w", err)
	}
	if s.Status() != session.StatusTerminated {
		return fmt.Errorf("terminate did not complete, inventory left in status %q", s.Status())
	}

	zap.L().Info("return inventory terminated", zap.String("event", rawID))
	fmt.Println("\nReturn inventory terminated.")
	return nil
}

func confirm(reader *bufio.Reader, question string) bool {
	fmt.Printf("%s [y/N] ", question)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
