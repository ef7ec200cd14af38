package store

// Persister stores collection snapshots outside the process. Writes are best
// effort: a failed Save is logged and the in-memory state stays authoritative.
type Persister interface {
	Load(name string) (data []byte, sequence int, found bool, err error)
	Save(name string, data []byte, sequence int) error
}
