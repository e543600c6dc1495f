package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var erasePath string

var eraseCmd = &cobra.Command{
	Use:                   "erase VOLUME SLOTS",
	Short:                 "Free selected slots",
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		volumePath, slotSel := args[0], args[1]

		sess, err := openSession(volumePath, true)
		if err != nil {
			return err
		}
		defer sess.Close()

		pathIdx, err := ParsePathSelector(erasePath)
		if err != nil {
			return err
		}

		slots, err := ParseSlotSelector(slotSel)
		if err != nil {
			return err
		}

		for _, slot := range slots {
			frames, err := resolveFrames(sess, pathIdx)
			if err != nil {
				return err
			}

			res, err := sess.Erase(frames, slot)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: slot %d: %v, skipping\n", slot, err)
				continue
			}

			fmt.Printf("erased slot %d (%d blocks freed)\n", slot, res.BlocksFreed)
		}

		return nil
	},
}

func init() {
	eraseCmd.Flags().StringVarP(&erasePath, "path", "p", "", "sub-directory path (slot indices joined by /)")
	rootCmd.AddCommand(eraseCmd)
}
