package namespace

// Source hands out namespace snapshots to the dispatcher.
type Source interface {
	Snapshot() (*Namespace, error)
}

// StaticSource always returns the snapshot taken at startup.
type StaticSource struct {
	ns *Namespace
}

func NewStaticSource(ns *Namespace) *StaticSource {
	return &StaticSource{ns: ns}
}

func (s *StaticSource) Snapshot() (*Namespace, error) {
	return s.ns, nil
}

// LiveSource reads the namespace file again on every Snapshot so edits
// apply without a restart. A failed read only fails that call.
type LiveSource struct {
	store *Store
	name  string
	mode  string
}

func NewLiveSource(store *Store, name, mode string) *LiveSource {
	return &LiveSource{store: store, name: name, mode: mode}
}

func (s *LiveSource) Snapshot() (*Namespace, error) {
	return s.store.Load(s.name, s.mode)
}

// NewSource returns a LiveSource when live is set and a StaticSource over
// ns otherwise.
func NewSource(store *Store, ns *Namespace, live bool) Source {
	if live {
		return NewLiveSource(store, ns.Name, ns.Mode)
	}
	return NewStaticSource(ns)
}
