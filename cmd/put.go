package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ensoniqfs/block"
	"ensoniqfs/directory"
	"ensoniqfs/extraction"
	"ensoniqfs/placement"
)

var (
	putPath      string
	putStartSlot int
)

var putCmd = &cobra.Command{
	Use:                   "put VOLUME FILE...",
	Short:                 "Insert archival files into the volume, starting at a slot",
	Args:                  cobra.MinimumNArgs(2),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		volumePath, files := args[0], args[1:]

		sess, err := openSession(volumePath, true)
		if err != nil {
			return err
		}
		defer sess.Close()

		pathIdx, err := ParsePathSelector(putPath)
		if err != nil {
			return err
		}

		slot := putStartSlot
		for _, path := range files {
			frames, err := resolveFrames(sess, pathIdx)
			if err != nil {
				return err
			}

			data, err := ioutil.ReadFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: %s: %v, skipping\n", path, err)
				continue
			}
			if len(data) < block.Size {
				fmt.Fprintf(os.Stderr, "warning: %s: too short to be an archival file, skipping\n", path)
				continue
			}

			typeByte := data[extraction.OffsetType]
			meta := placement.Meta{
				Name: baseNameWithoutExt(path),
				Type: directory.TypeCode(typeByte),
			}
			body := data[block.Size:]
			declaredBlocks := len(body) / block.Size

			res, err := sess.Insert(frames, slot, body, uint16(declaredBlocks), meta)
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: %s: %v, skipping\n", path, err)
				continue
			}

			fmt.Printf("inserted %s -> slot %d (start block %d)\n", path, res.Slot, res.Start)
			slot = res.Slot + 1
		}

		return nil
	},
}

func init() {
	putCmd.Flags().StringVarP(&putPath, "path", "p", "", "sub-directory path (slot indices joined by /)")
	putCmd.Flags().IntVarP(&putStartSlot, "start", "s", 1, "slot to begin the search for free slots")
	rootCmd.AddCommand(putCmd)
}

func baseNameWithoutExt(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
