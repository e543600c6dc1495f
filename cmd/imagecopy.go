package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ensoniqfs/ensoniqerr"
)

const imageCopyBufSize = 1 << 20

var imageCopyCmd = &cobra.Command{
	Use:                   "image-copy SOURCE TARGET",
	Short:                 "Byte-copy one image to another, reporting progress",
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, target := args[0], args[1]

		if !confirm(fmt.Sprintf("Copy %s to %s? This overwrites any existing content at the target.", source, target)) {
			return errors.Wrap(ensoniqerr.ErrCancelled, "image-copy")
		}

		in, err := os.Open(source)
		if err != nil {
			return errors.Wrapf(err, "opening %s", source)
		}
		defer in.Close()

		info, err := in.Stat()
		if err != nil {
			return errors.Wrapf(err, "statting %s", source)
		}

		out, err := os.Create(target)
		if err != nil {
			return errors.Wrapf(err, "creating %s", target)
		}
		defer out.Close()

		var copied int64
		buf := make([]byte, imageCopyBufSize)
		for {
			n, readErr := in.Read(buf)
			if n > 0 {
				if _, writeErr := out.Write(buf[:n]); writeErr != nil {
					return errors.Wrapf(writeErr, "writing %s", target)
				}
				copied += int64(n)
				if !quiet {
					fmt.Printf("\r%d / %d bytes", copied, info.Size())
				}
			}
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				return errors.Wrapf(readErr, "reading %s", source)
			}
		}
		if !quiet {
			fmt.Println()
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(imageCopyCmd)
}
