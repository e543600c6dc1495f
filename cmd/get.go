package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ensoniqfs/extraction"
)

var getPath string

var getCmd = &cobra.Command{
	Use:                   "get VOLUME SLOTS",
	Short:                 "Extract selected slots to archival files in the working directory",
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		volumePath, slotSel := args[0], args[1]

		sess, err := openSession(volumePath, false)
		if err != nil {
			return err
		}
		defer sess.Close()

		pathIdx, err := ParsePathSelector(getPath)
		if err != nil {
			return err
		}
		frames, err := resolveFrames(sess, pathIdx)
		if err != nil {
			return err
		}
		target := frames[len(frames)-1].Dir

		slots, err := ParseSlotSelector(slotSel)
		if err != nil {
			return err
		}

		for _, slot := range slots {
			if slot < 0 || slot >= len(target.Entries) {
				fmt.Fprintf(os.Stderr, "warning: slot %d out of range, skipping\n", slot)
				continue
			}
			entry := target.Entries[slot]
			if entry.Empty() {
				fmt.Fprintf(os.Stderr, "warning: slot %d is empty, skipping\n", slot)
				continue
			}

			name := strings.TrimSpace(entry.NameString()) + ".efe"
			f, err := os.Create(name)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: slot %d: %v, skipping\n", slot, err)
				continue
			}

			err = extraction.Extract(sess.Backend, sess.AT, entry, f)
			f.Close()
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: slot %d: %v, skipping\n", slot, err)
				continue
			}

			fmt.Printf("extracted slot %d -> %s\n", slot, name)
		}

		return nil
	},
}

func init() {
	getCmd.Flags().StringVarP(&getPath, "path", "p", "", "sub-directory path (slot indices joined by /)")
	rootCmd.AddCommand(getCmd)
}
