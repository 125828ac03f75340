// Package progress tracks the entries handled while packing or unpacking an
// archive and passes the state to a Printer.
package progress

import (
	"sync"
	"time"
)

// State is the number of items handled so far. TotalBytes is zero if the
// total is not known in advance.
type State struct {
	DirsFinished  uint64
	FilesFinished uint64
	BytesFinished uint64
	TotalBytes    uint64
}

// ItemAction describes what happened to a single item.
type ItemAction string

// Constants for the different CompleteItem actions.
const (
	ActionDirAdded      ItemAction = "dir added"
	ActionFileAdded     ItemAction = "file added"
	ActionDirExtracted  ItemAction = "dir extracted"
	ActionFileExtracted ItemAction = "file extracted"
)

// Printer displays the progress.
type Printer interface {
	Update(progress State, duration time.Duration)
	CompleteItem(action ItemAction, item string, size uint64)
	Finish(progress State, duration time.Duration)
}

// Progress collects the items reported by a packer or unpacker. Update is
// called on the printer at most once per interval, never if the interval is
// zero.
type Progress struct {
	m sync.Mutex

	s          State
	started    time.Time
	lastUpdate time.Time
	interval   time.Duration

	dirAction, fileAction ItemAction

	printer Printer
}

// NewProgress returns a Progress which reports directories with dirAction
// and files with fileAction.
func NewProgress(printer Printer, interval time.Duration, dirAction, fileAction ItemAction) *Progress {
	return &Progress{
		started:    time.Now(),
		interval:   interval,
		dirAction:  dirAction,
		fileAction: fileAction,
		printer:    printer,
	}
}

// CompleteItem records a finished item. It has the signature of the
// CompleteItem callbacks of packer.Packer and unpacker.Unpacker.
func (p *Progress) CompleteItem(item string, isDir bool, size uint64) {
	if p == nil {
		return
	}

	p.m.Lock()
	defer p.m.Unlock()

	if isDir {
		p.s.DirsFinished++
		p.printer.CompleteItem(p.dirAction, item, 0)
	} else {
		p.s.FilesFinished++
		p.s.BytesFinished += size
		p.printer.CompleteItem(p.fileAction, item, size)
	}

	if p.interval <= 0 {
		return
	}

	now := time.Now()
	if now.Sub(p.lastUpdate) >= p.interval {
		p.lastUpdate = now
		p.printer.Update(p.s, now.Sub(p.started))
	}
}

// SetTotal sets the number of bytes expected in total.
func (p *Progress) SetTotal(bytes uint64) {
	if p == nil {
		return
	}

	p.m.Lock()
	defer p.m.Unlock()

	p.s.TotalBytes = bytes
}

// Finish passes the final state to the printer.
func (p *Progress) Finish() {
	if p == nil {
		return
	}

	p.m.Lock()
	defer p.m.Unlock()

	p.printer.Finish(p.s, time.Since(p.started))
}
