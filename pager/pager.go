// Package pager mediates all disk I/O for the database file. It hands out
// at most one cached buffer per page and flushes dirty state only on Close.
//
// Every error this package returns is fatal in the sense spec.md defines:
// the caller is expected to print a diagnostic and terminate the process
// rather than retry or recover. Pager itself never calls os.Exit — that
// call belongs to the REPL, which is the only layer that knows whether a
// process-wide shutdown is appropriate (tests, for instance, are not).
package pager

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

const (
	// PageSize is the fixed width of every page, including page 0.
	PageSize = 4096
	// MaxPages bounds the number of page slots a Pager will ever cache.
	MaxPages = 100
)

// ErrCorruptFile is returned by Open when the database file's length is not
// a whole multiple of PageSize.
var ErrCorruptFile = errors.New("pager: file length is not a multiple of page size")

// ErrPageOutOfBounds is the fatal condition raised when a caller asks for a
// page number at or beyond MaxPages.
var ErrPageOutOfBounds = errors.New("pager: page number out of bounds")

// ErrEmptyFlushSlot is the fatal condition raised by Flush on a page slot
// that has never been populated.
var ErrEmptyFlushSlot = errors.New("pager: flush of empty slot")

// Page is a single fixed-size buffer mirroring one page of the file.
type Page struct {
	Data [PageSize]byte
}

// Pager owns the file handle and the page slot array. A nil slot means the
// page has never been touched this session.
type Pager struct {
	file       *os.File
	pages      [MaxPages]*Page
	fileLength int64
	numPages   uint32
}

// Open opens (creating if necessary) the database file at filename and
// validates its length. A zero-length file is a valid, empty database.
func Open(filename string) (*Pager, error) {
	f, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, errors.Wrapf(err, "pager: open %s", filename)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "pager: stat %s", filename)
	}

	fileLength := info.Size()
	if fileLength%PageSize != 0 {
		f.Close()
		return nil, errors.Wrapf(ErrCorruptFile, "file length %d", fileLength)
	}

	return &Pager{
		file:       f,
		fileLength: fileLength,
		numPages:   uint32(fileLength / PageSize),
	}, nil
}

// NumPages reports how many pages the pager currently believes the file
// (and in-memory tree) to span.
func (p *Pager) NumPages() uint32 { return p.numPages }

// Get returns the cached buffer for pageNum, loading it from disk on first
// access. An incomplete on-disk page (short read at EOF) is left zero-padded.
func (p *Pager) Get(pageNum uint32) (*Page, error) {
	if pageNum >= MaxPages {
		return nil, errors.Wrapf(ErrPageOutOfBounds, "page %d (max %d)", pageNum, MaxPages)
	}

	if p.pages[pageNum] == nil {
		page := &Page{}
		if pageNum < p.numPages {
			off := int64(pageNum) * PageSize
			if _, err := p.file.Seek(off, io.SeekStart); err != nil {
				return nil, errors.Wrapf(err, "pager: seek page %d", pageNum)
			}
			if _, err := io.ReadFull(p.file, page.Data[:]); err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
				return nil, errors.Wrapf(err, "pager: read page %d", pageNum)
			}
		}
		p.pages[pageNum] = page
		if pageNum >= p.numPages {
			p.numPages = pageNum + 1
		}
	}

	return p.pages[pageNum], nil
}

// AllocateNewPageNumber returns the next unused page number. The caller is
// expected to Get it immediately, which extends numPages, and initialize it
// as a leaf or internal node. Pages are never reclaimed.
func (p *Pager) AllocateNewPageNumber() uint32 {
	return p.numPages
}

// Flush writes the full contents of pageNum's buffer back to disk. Flushing
// an unpopulated slot is a fatal programmer error.
func (p *Pager) Flush(pageNum uint32) error {
	page := p.pages[pageNum]
	if page == nil {
		return errors.Wrapf(ErrEmptyFlushSlot, "page %d", pageNum)
	}

	off := int64(pageNum) * PageSize
	if _, err := p.file.Seek(off, io.SeekStart); err != nil {
		return errors.Wrapf(err, "pager: seek for flush %d", pageNum)
	}
	if _, err := p.file.Write(page.Data[:]); err != nil {
		return errors.Wrapf(err, "pager: write page %d", pageNum)
	}
	return nil
}

// Close flushes every populated slot and closes the file descriptor. A
// second call is undefined, matching the source's single-shutdown contract.
func (p *Pager) Close() error {
	for i := uint32(0); i < p.numPages; i++ {
		if p.pages[i] == nil {
			continue
		}
		if err := p.Flush(i); err != nil {
			return err
		}
	}
	return p.file.Close()
}
