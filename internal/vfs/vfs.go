// Package vfs provides the minimal filesystem abstraction the SST writer
// and reader need: create-write-fsync-reopen-read-only, and random-access
// reads afterward. It exists so tests can substitute an in-memory
// filesystem instead of touching disk.
package vfs

import (
	"io"
	"os"
)

// FS is the filesystem interface the SST layer depends on.
type FS interface {
	// Create creates a new writable file, truncating it if it exists.
	Create(name string) (WritableFile, error)

	// OpenRandomAccess opens an existing file for random-access reads.
	OpenRandomAccess(name string) (RandomAccessFile, error)

	// Remove deletes a file. Removing a nonexistent file is not an error.
	Remove(name string) error

	// Exists reports whether name refers to an existing file.
	Exists(name string) bool
}

// WritableFile is a file open for sequential writes.
type WritableFile interface {
	io.Writer
	io.Closer

	// Sync flushes the file's contents to stable storage.
	Sync() error
}

// RandomAccessFile is a file open for reads at arbitrary offsets.
type RandomAccessFile interface {
	io.ReaderAt
	io.Closer

	// Size returns the file size in bytes.
	Size() int64
}

// osFS implements FS using the host filesystem.
type osFS struct{}

// Default returns the filesystem backed by the host OS.
func Default() FS {
	return osFS{}
}

func (osFS) Create(name string) (WritableFile, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	return &osWritableFile{f: f}, nil
}

func (osFS) OpenRandomAccess(name string) (RandomAccessFile, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return &osRandomAccessFile{f: f, size: info.Size()}, nil
}

func (osFS) Remove(name string) error {
	err := os.Remove(name)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (osFS) Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

type osWritableFile struct {
	f *os.File
}

func (wf *osWritableFile) Write(p []byte) (int, error) { return wf.f.Write(p) }
func (wf *osWritableFile) Close() error                { return wf.f.Close() }
func (wf *osWritableFile) Sync() error                 { return wf.f.Sync() }

type osRandomAccessFile struct {
	f    *os.File
	size int64
}

func (rf *osRandomAccessFile) ReadAt(p []byte, off int64) (int, error) { return rf.f.ReadAt(p, off) }
func (rf *osRandomAccessFile) Close() error                            { return rf.f.Close() }
func (rf *osRandomAccessFile) Size() int64                             { return rf.size }
