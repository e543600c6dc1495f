package cmd

import (
	"encoding/binary"
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ensoniqfs/block"
	"ensoniqfs/directory"
	"ensoniqfs/ensoniqerr"
	"ensoniqfs/extraction"
)

var bankInfoCmd = &cobra.Command{
	Use:                   "bank-info FILE",
	Short:                 "Print the contents of an instrument-bank archive",
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := ioutil.ReadFile(args[0])
		if err != nil {
			return errors.Wrapf(err, "reading %s", args[0])
		}
		if len(data) < block.Size {
			return errors.Wrap(ensoniqerr.ErrNotAnInstrument, "archive shorter than one header block")
		}

		header := data[:block.Size]
		t := directory.TypeCode(header[extraction.OffsetType])
		if t != directory.TypeBankEPS && t != directory.TypeBankEPS16 && t != directory.TypeBankASR {
			return errors.Wrapf(ensoniqerr.ErrNotAnInstrument, "archive type %s is not an instrument bank", t.ShortName())
		}

		name := strings.TrimRight(string(header[18:30]), " ")
		size := binary.BigEndian.Uint16(header[extraction.OffsetSize : extraction.OffsetSize+2])
		contig := binary.BigEndian.Uint16(header[extraction.OffsetContiguousCount : extraction.OffsetContiguousCount+2])
		part := header[extraction.OffsetPartIndex]

		fmt.Printf("name: %s\ntype: %s\ndeclared blocks: %d\ncontiguous-count: %d\npart index: %d\npayload bytes: %d\n",
			name, t.ShortName(), size, contig, part, len(data)-block.Size)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bankInfoCmd)
}
