package cmd

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ensoniqfs/instrument"
)

var joinCmd = &cobra.Command{
	Use:                   "join OUTPUT SLICE...",
	Short:                 "Concatenate multi-part archives",
	Args:                  cobra.MinimumNArgs(2),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		output := args[0]
		sliceFiles := args[1:]

		slices := make([][]byte, 0, len(sliceFiles))
		for _, path := range sliceFiles {
			data, err := ioutil.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "reading %s", path)
			}
			slices = append(slices, data)
		}

		joined, err := instrument.Join(slices)
		if err != nil {
			return err
		}

		if err := ioutil.WriteFile(output, joined, 0644); err != nil {
			return errors.Wrapf(err, "writing %s", output)
		}

		fmt.Printf("wrote %s (%d bytes)\n", output, len(joined))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(joinCmd)
}
