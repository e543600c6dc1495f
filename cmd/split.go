package cmd

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ensoniqfs/ensoniqerr"
	"ensoniqfs/instrument"
)

var splitCmd = &cobra.Command{
	Use:                   "split FILE {eps|asr}",
	Short:                 "Partition a large instrument archive into disk-sized pieces",
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, sizeName := args[0], args[1]

		var sliceBlocks int
		switch sizeName {
		case "eps":
			sliceBlocks = instrument.SliceBlocksEPS
		case "asr":
			sliceBlocks = instrument.SliceBlocksASR
		default:
			return errors.Wrapf(ensoniqerr.ErrInvalidArgument, "unknown slice size name %q", sizeName)
		}

		data, err := ioutil.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "reading %s", path)
		}

		dir := filepath.Dir(path)
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

		slices, err := instrument.Split(data, sliceBlocks, base, dir)
		if err != nil {
			return err
		}

		for _, s := range slices {
			if err := ioutil.WriteFile(s.Name, s.Data, 0644); err != nil {
				return errors.Wrapf(err, "writing %s", s.Name)
			}
			fmt.Printf("wrote %s (%d bytes)\n", s.Name, len(s.Data))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(splitCmd)
}
