package cmd

import (
	"ensoniqfs/directory"
	"ensoniqfs/session"
)

// resolveFrames walks pathIdx from the session's root directory, the way
// every slot-selector-based mode (get, put, erase, mkdir) locates its
// target directory before operating on a slot within it.
func resolveFrames(sess *session.Session, pathIdx []int) ([]directory.Frame, error) {
	return directory.Resolve(sess.Backend, sess.AT, sess.Root, pathIdx)
}
