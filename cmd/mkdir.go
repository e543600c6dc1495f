package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var mkdirPath string

var mkdirCmd = &cobra.Command{
	Use:                   "mkdir VOLUME NAME",
	Short:                 "Create a sub-directory slot",
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		volumePath, name := args[0], args[1]

		sess, err := openSession(volumePath, true)
		if err != nil {
			return err
		}
		defer sess.Close()

		pathIdx, err := ParsePathSelector(mkdirPath)
		if err != nil {
			return err
		}
		frames, err := resolveFrames(sess, pathIdx)
		if err != nil {
			return err
		}

		slot, err := sess.Mkdir(frames, 1, name)
		if err != nil {
			return err
		}

		fmt.Printf("created sub-directory %q at slot %d\n", name, slot)
		return nil
	},
}

func init() {
	mkdirCmd.Flags().StringVarP(&mkdirPath, "path", "p", "", "sub-directory path (slot indices joined by /)")
	rootCmd.AddCommand(mkdirCmd)
}
