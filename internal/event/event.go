// Package event defines the progress events the engine emits to presenters.
package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	WalkStarted Type = iota + 1
	PlanComplete
	FileStarted
	FileCopied
	FileMoved
	FileDeleted
	DirCreated
	DirDeleted
	OpFailed
	OpSkipped
	VerifyStarted
	VerifyOK
	VerifyFailed
)

var typeNames = [...]string{
	WalkStarted:   "WalkStarted",
	PlanComplete:  "PlanComplete",
	FileStarted:   "FileStarted",
	FileCopied:    "FileCopied",
	FileMoved:     "FileMoved",
	FileDeleted:   "FileDeleted",
	DirCreated:    "DirCreated",
	DirDeleted:    "DirDeleted",
	OpFailed:      "OpFailed",
	OpSkipped:     "OpSkipped",
	VerifyStarted: "VerifyStarted",
	VerifyOK:      "VerifyOK",
	VerifyFailed:  "VerifyFailed",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event is a single progress event from the engine.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // destination-relative path
	Size      int64  // file size in bytes, when applicable
	Total     int64  // total planned files (PlanComplete)
	TotalSize int64  // total planned bytes (PlanComplete)
	Reason    string // skip reason (OpSkipped)
	Error     error  // failure detail (OpFailed, VerifyFailed)
	WorkerID  int
}
