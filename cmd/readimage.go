package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"ensoniqfs/archive"
	"ensoniqfs/geometry"
	"ensoniqfs/session"
	"ensoniqfs/storage"
)

var readImageDensity string

var readImageCmd = &cobra.Command{
	Use:                   "read-image DEVICE OUTPUT",
	Short:                 "Dump a physical floppy to an image file",
	Long:                  "Dumps a physical floppy to an image file. The output file extension selects raw or archival (.eps/.asr) format.",
	Args:                  cobra.ExactArgs(2),
	DisableFlagsInUseLine: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		device, output := args[0], args[1]

		sectorsPerTrack := geometry.SectorsPerTrackDD
		if readImageDensity == "hd" {
			sectorsPerTrack = geometry.SectorsPerTrackHD
		}

		f, err := os.OpenFile(device, os.O_RDONLY, 0)
		if err != nil {
			return errors.Wrapf(err, "opening %s", device)
		}
		defer f.Close()

		ctrl := newDeviceFloppyController(f, sectorsPerTrack)
		backend := storage.NewFloppyBackend(ctrl, sectorsPerTrack)
		defer backend.Close()

		sess, err := session.Open(backend, session.SubstrateFloppy)
		if err != nil {
			return err
		}

		raw := make([]byte, int(sess.Identifier.TotalBlocks)*512)
		if err := backend.ReadBlocks(0, sess.Identifier.TotalBlocks, raw); err != nil {
			return err
		}

		out := raw
		ext := strings.ToLower(extOf(output))
		switch ext {
		case ".eps":
			out, err = archive.Encode(backend, sess.AT, archive.EPS, sess.Identifier.DeviceType)
		case ".asr":
			out, err = archive.Encode(backend, sess.AT, archive.ASR, sess.Identifier.DeviceType)
		}
		if err != nil {
			return err
		}

		if err := ioutil.WriteFile(output, out, 0644); err != nil {
			return errors.Wrapf(err, "writing %s", output)
		}

		fmt.Printf("wrote %s (%d bytes)\n", output, len(out))
		return nil
	},
}

func init() {
	readImageCmd.Flags().StringVarP(&readImageDensity, "density", "d", "dd", "floppy density: dd or hd")
	rootCmd.AddCommand(readImageCmd)
}
