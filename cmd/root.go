// Package cmd implements the command-line surface (component L): one
// cobra subcommand per mode in the invocation table, slot and path
// selector parsing, and confirmation prompting for destructive modes.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	quiet   bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ensoniqfs",
	Short: "Read, write, and maintain Ensoniq EPS/ASR sampler disk volumes",
	Long: `ensoniqfs treats an Ensoniq EPS/ASR sampler volume - a raw image file,
a block device, or a physical floppy diskette - as a navigable filesystem:
extract and insert sampler files, format fresh volumes, split and join
oversized instruments, and translate between raw images and the archival
container formats.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress confirmation prompts")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "increase diagnostic detail")
}

// Execute runs the root command, printing any returned error and setting
// a non-zero exit status.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// confirm prompts for a yes/no answer on stdin, returning true
// immediately without prompting when --quiet was given.
func confirm(prompt string) bool {
	if quiet {
		return true
	}
	fmt.Printf("%s [y/N] ", prompt)
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y"
}
