// Package lockedfile provides an exclusive advisory file lock, used to
// serialize builds that share a target directory.
package lockedfile

import "os"

// Mutex is a file-backed mutual exclusion lock. The zero value is not
// usable; create one with MutexAt.
type Mutex struct {
	path string
}

// MutexAt returns a Mutex backed by the file at path. The file is
// created if it does not exist.
func MutexAt(path string) *Mutex {
	return &Mutex{path: path}
}

// Lock acquires the lock, blocking until it is available, and returns
// the function that releases it.
func (mu *Mutex) Lock() (unlock func(), err error) {
	f, err := os.OpenFile(mu.path, os.O_RDWR|os.O_CREATE, 0o666)
	if err != nil {
		return nil, err
	}
	if err := lock(f); err != nil {
		f.Close()
		return nil, err
	}
	return func() {
		unlockFile(f)
		f.Close()
	}, nil
}
