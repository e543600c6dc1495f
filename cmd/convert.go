package cmd

import (
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ensoniqfs/alloctable"
	"ensoniqfs/archive"
	"ensoniqfs/ensoniqerr"
	"ensoniqfs/storage"
)

var convertFlavor string

var convertCmd = &cobra.Command{
	Use:                   "convert SOURCE TARGET",
	Short:                 "Translate an archival container to or from a raw image",
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		source, target := args[0], args[1]

		data, err := ioutil.ReadFile(source)
		if err != nil {
			return errors.Wrapf(err, "reading %s", source)
		}

		var out []byte
		switch {
		case strings.EqualFold(strings.TrimPrefix(extOf(source), "."), "raw") || strings.HasSuffix(source, ".img"):
			out, err = convertRawToContainer(data, convertFlavor)
		default:
			out, err = convertContainerToRaw(data)
		}
		if err != nil {
			return err
		}

		if err := ioutil.WriteFile(target, out, 0644); err != nil {
			return errors.Wrapf(err, "writing %s", target)
		}
		fmt.Printf("wrote %s (%d bytes)\n", target, len(out))
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertFlavor, "flavor", "f", "eps", "container flavor to encode (eps|asr), when converting a raw image")
	rootCmd.AddCommand(convertCmd)
}

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[i:]
}

func convertRawToContainer(raw []byte, flavorName string) ([]byte, error) {
	var flavor archive.Flavor
	switch flavorName {
	case "eps":
		flavor = archive.EPS
	case "asr":
		flavor = archive.ASR
	default:
		return nil, errors.Wrapf(ensoniqerr.ErrInvalidArgument, "unknown flavor %q", flavorName)
	}

	backend := storage.NewMemoryBackendFromBytes(raw)
	at, err := alloctable.LoadCached(backend, backend.TotalBlocks())
	if err != nil {
		return nil, err
	}

	return archive.Encode(backend, at, flavor, 0)
}

func convertContainerToRaw(data []byte) ([]byte, error) {
	if tagged, err := archive.DecodeTagged(data); err == nil {
		return tagged.Image, nil
	}

	flavor, err := archive.DetectFlavor(data)
	if err != nil {
		return nil, err
	}

	// Without an accompanying identifier block, assume the flavor's own
	// maximum block count; a real volume's declared TotalBlocks would
	// normally come from session state instead.
	return archive.Decode(data, flavor, flavor.MaxBlocks)
}
