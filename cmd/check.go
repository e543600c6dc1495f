package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ensoniqfs/integrity"
)

var checkLevel int

var checkCmd = &cobra.Command{
	Use:                   "check VOLUME",
	Short:                 "Report structural diagnostics",
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(args[0], false)
		if err != nil {
			return err
		}
		defer sess.Close()

		rep, err := integrity.Check(sess.Backend, sess.AT, checkLevel > 0 || verbose)
		if err != nil {
			return err
		}

		fmt.Print(rep.String())
		return nil
	},
}

func init() {
	checkCmd.Flags().IntVarP(&checkLevel, "level", "l", 0, "diagnostic level: 0 (summary) or 1 (verbose slot dump)")
	rootCmd.AddCommand(checkCmd)
}
