package cmd

import (
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ensoniqfs/archive"
	"ensoniqfs/block"
	"ensoniqfs/ensoniqerr"
	"ensoniqfs/formatter"
	"ensoniqfs/geometry"
	"ensoniqfs/storage"
)

var writeImageCmd = &cobra.Command{
	Use:                   "write-image INPUT DEVICE",
	Short:                 "Restore an image to a physical floppy",
	Long:                  "Restores a raw or archival-container image to a physical floppy, auto-detecting density from the image's own block count.",
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, device := args[0], args[1]

		data, err := ioutil.ReadFile(input)
		if err != nil {
			return errors.Wrapf(err, "reading %s", input)
		}

		raw, err := decodeIfContainer(data)
		if err != nil {
			return err
		}
		if len(raw)%block.Size != 0 {
			return errors.Wrap(ensoniqerr.ErrInvalidArgument, "decoded image is not block-aligned")
		}
		totalBlocks := uint32(len(raw) / block.Size)

		sectorsPerTrack := autoDetectDensity(totalBlocks)

		f, err := os.OpenFile(device, os.O_RDWR, 0)
		if err != nil {
			return errors.Wrapf(err, "opening %s", device)
		}
		defer f.Close()

		ctrl := newDeviceFloppyController(f, sectorsPerTrack)
		backend := storage.NewFloppyBackend(ctrl, sectorsPerTrack)
		defer backend.Close()

		if err := backend.WriteBlocks(0, totalBlocks, raw); err != nil {
			return err
		}

		fmt.Printf("wrote %d blocks to %s\n", totalBlocks, device)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(writeImageCmd)
}

// decodeIfContainer recognizes a tagged or skip-table container and
// decodes it to a raw image; data that matches neither is assumed to
// already be a raw image.
func decodeIfContainer(data []byte) ([]byte, error) {
	if tagged, err := archive.DecodeTagged(data); err == nil {
		return tagged.Image, nil
	}
	if flavor, err := archive.DetectFlavor(data); err == nil {
		return archive.Decode(data, flavor, flavor.MaxBlocks)
	}
	return data, nil
}

// autoDetectDensity infers the sectors-per-track density from an image's
// total block count, the way restoring an image to a floppy has nothing
// else to go on beyond the image's own declared geometry. Images smaller
// than the high-density ASR preset are treated as double density.
func autoDetectDensity(totalBlocks uint32) int {
	hdTrackBlocks := uint32(geometry.SectorsPerTrackHD * geometry.HeadsPerDisk)
	if totalBlocks >= formatter.PresetASR.TotalBlocks() && totalBlocks%hdTrackBlocks == 0 && totalBlocks/hdTrackBlocks <= 255 {
		return geometry.SectorsPerTrackHD
	}
	return geometry.SectorsPerTrackDD
}
