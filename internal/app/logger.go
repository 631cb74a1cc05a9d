package app

import (
	"time"

	"github.com/alexanderramin/daybook/internal/domain"
)

type LogRequest struct {
	Activity string
	// Minutes, when positive, caps the session length instead of running
	// it up to Now.
	Minutes float64
	Now     *time.Time
}

type LogStatus string

const (
	LogRecorded LogStatus = "RECORDED"
	// LogSkipped means nothing was written: blank activity or an empty
	// interval after clamping.
	LogSkipped LogStatus = "SKIPPED"
)

type LogResult struct {
	Status   LogStatus
	Activity string
	Start    time.Time
	End      time.Time
	PrevStop time.Time
	Segments []domain.Session
}

type UndoStatus string

const (
	UndoApplied   UndoStatus = "UNDONE"
	NothingToUndo UndoStatus = "NOTHING_TO_UNDO"
)

type UndoResult struct {
	Status       UndoStatus
	Removed      []domain.Session
	RestoredStop time.Time
}

type CursorRequest struct {
	Now *time.Time
}

type CursorResponse struct {
	Now           time.Time
	LastStop      time.Time
	ElapsedMin    float64
	UndoAvailable bool
}

type LogErrorCode string

const (
	LogErrPartialWrite LogErrorCode = "PARTIAL_WRITE"
	LogErrStorage      LogErrorCode = "STORAGE"
)

// LogError reports a failed write. Written counts the segments persisted
// before the failure; they remain undoable.
type LogError struct {
	Code    LogErrorCode
	Message string
	Written int
	Err     error
}

func (e *LogError) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LogError) Unwrap() error { return e.Err }
