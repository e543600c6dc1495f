package cmd

import (
	"os"

	"github.com/pkg/errors"

	"ensoniqfs/session"
	"ensoniqfs/storage"
)

// openSession opens path as a byte-granular file backend and loads a
// session over it. Block-device and floppy substrates are reached the
// same way at the session layer; only the backend construction differs,
// and this CLI only wires up the file/device case directly.
func openSession(path string, writable bool) (*session.Session, error) {
	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}

	backend := storage.NewFileBackend(f)
	sess, err := session.Open(backend, session.SubstrateFile)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return sess, nil
}
