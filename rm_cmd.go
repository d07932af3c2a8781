package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var rmForce bool

var rmCmd = &cobra.Command{
	Use:   "rm <item>",
	Short: "Delete a library item",
	Long:  paragraph(fmt.Sprintf("\n%s a library item, including its audio and timing data.", keyword("Delete"))),
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openLibrary()
		if err != nil {
			return err
		}

		entry, err := resolveItem(store, args[0])
		if err != nil {
			return err
		}

		if !rmForce {
			fmt.Printf("Delete %q and its generated audio? [y/N] ", entry.Title)
			answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "y") {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := store.Delete(entry.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted %q\n", entry.Title)
		return nil
	},
}

func init() {
	rmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "delete without confirmation")
}
