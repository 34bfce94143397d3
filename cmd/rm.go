package cmd

import (
	"errors"
	"fmt"

	"github.com/pacerhq/pacer/internal/store"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <objective>",
	Short: "Delete an objective by name or id prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	o, err := st.FindObjective(args[0])
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no objective matches %q", args[0])
		}
		return err
	}

	if err := st.DeleteObjective(o.ID); err != nil {
		return fmt.Errorf("deleting objective: %w", err)
	}

	fmt.Printf("\n  Deleted %q (%s)\n\n", o.Name, o.ID)
	return nil
}
