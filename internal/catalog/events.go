package catalog

import "photocat/internal/model"

// Reason tags the catalog change an event reports.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonFolderCreated
	ReasonFolderDeleted
	ReasonAssetCreated
	ReasonAssetUpdated
	ReasonAssetDeleted
)

func (r Reason) String() string {
	switch r {
	case ReasonFolderCreated:
		return "folder-created"
	case ReasonFolderDeleted:
		return "folder-deleted"
	case ReasonAssetCreated:
		return "asset-created"
	case ReasonAssetUpdated:
		return "asset-updated"
	case ReasonAssetDeleted:
		return "asset-deleted"
	default:
		return "none"
	}
}

// Event is one progress record emitted during a reconciliation run.
// A terminal event with an empty Message fires exactly once per run,
// whether the run succeeded or failed; on failure Err is set.
type Event struct {
	Message string
	Asset   *model.Asset
	Folder  *model.Folder
	Reason  Reason
	Err     error
}

// EventSink receives events synchronously and in generation order. The
// engine never invokes the sink concurrently with itself; marshaling to a
// UI thread is the caller's concern.
type EventSink interface {
	Notify(Event)
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(Event)

func (f EventSinkFunc) Notify(e Event) { f(e) }
