package entities

import "time"

// EntryKind distinguishes the two kinds of records a listing can produce.
type EntryKind string

const (
	EntryKindFile      EntryKind = "file"
	EntryKindDirectory EntryKind = "directory"
)

// DirectoryEntry is one record of a directory listing. Name may contain
// non-ASCII path segments. ObjectID is the content hash of the entry and
// doubles as a cheap change signal: same id, same content.
type DirectoryEntry struct {
	Name     string    `json:"name"`
	Kind     EntryKind `json:"kind"`
	Size     int64     `json:"size"` // 0 for directories
	Mode     string    `json:"mode"`
	ObjectID string    `json:"object_id"`
}

// IsDir reports whether the entry is a directory.
func (e DirectoryEntry) IsDir() bool {
	return e.Kind == EntryKindDirectory
}

// CommitID is a resolved commit hash.
type CommitID string

// FetchResult records the head reached by the most recent successful fetch
// of one repository branch. Held in process memory only.
type FetchResult struct {
	Head      CommitID
	FetchedAt time.Time
}

// MirrorHandle is the process-local view of one repository branch's bare,
// metadata-only mirror: where it lives on disk and the head its last fetch
// resolved. The directory persists across calls and is healed in place,
// never torn down by this layer.
type MirrorHandle struct {
	Path string
	Head CommitID
}
