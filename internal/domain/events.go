package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventFilesDiscoveredBatch EventType = "FilesDiscoveredBatch"
	EventFileCreated          EventType = "FileCreated"
	EventFileRemoved          EventType = "FileRemoved"
	EventError                EventType = "Error"
	EventScanStarted          EventType = "ScanStarted"
	EventScanCompleted        EventType = "ScanCompleted"
	EventScanRequested        EventType = "ScanRequested"
	EventConfigLoaded         EventType = "ConfigLoaded"
	EventIndexChanged         EventType = "IndexChanged"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// FilesDiscoveredBatchEvent carries a batch of entries found by a scan
type FilesDiscoveredBatchEvent struct {
	Files []FileEntry
}

func (e FilesDiscoveredBatchEvent) Type() EventType { return EventFilesDiscoveredBatch }

// FileCreatedEvent is emitted by the watcher for a new file or directory
type FileCreatedEvent struct {
	File FileEntry
}

func (e FileCreatedEvent) Type() EventType { return EventFileCreated }

// FileRemovedEvent is emitted by the watcher when an entry disappears
type FileRemovedEvent struct {
	Root string
	Path string
}

func (e FileRemovedEvent) Type() EventType { return EventFileRemoved }

// IndexChangedEvent is emitted after the file store was modified
type IndexChangedEvent struct {
	Total int
}

func (e IndexChangedEvent) Type() EventType { return EventIndexChanged }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ScanStartedEvent is emitted when indexing begins
type ScanStartedEvent struct {
	Roots []string
}

func (e ScanStartedEvent) Type() EventType { return EventScanStarted }

// ScanCompletedEvent is emitted when indexing completes
type ScanCompletedEvent struct {
	FilesFound int
}

func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }

// ScanRequestedEvent is emitted to request a new scan
type ScanRequestedEvent struct {
	Roots []string // Empty means the configured roots
}

func (e ScanRequestedEvent) Type() EventType { return EventScanRequested }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }
