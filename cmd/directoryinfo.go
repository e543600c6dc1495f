package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ensoniqfs/directory"
)

var directoryInfoCmd = &cobra.Command{
	Use:                   "directory-info VOLUME",
	Short:                 "Print the volume listing and free-space usage",
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession(args[0], false)
		if err != nil {
			return err
		}
		defer sess.Close()

		fmt.Printf("%s  %d blocks total, %d free\n",
			trimLabel(sess.Identifier.Label), sess.Identifier.TotalBlocks, sess.FreeBlocks())
		printDirectoryListing(sess.Root, 0)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(directoryInfoCmd)
}

func printDirectoryListing(d *directory.Directory, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	for i, e := range d.Entries {
		if e.Empty() || e.Type == directory.TypeParentPtr {
			continue
		}
		fmt.Printf("%s%2d  %-7s %-12s %6d blocks  start=%d\n",
			indent, i, e.Type.ShortName(), e.NameString(), e.Size, e.Start)
	}
}

func trimLabel(label [7]byte) string {
	n := len(label)
	for n > 0 && label[n-1] == ' ' {
		n--
	}
	return string(label[:n])
}
