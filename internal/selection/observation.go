package selection

// Kind is the action category of an observation.
type Kind string

const (
	KindDuplicate   Kind = "duplicate"
	KindWouldDelete Kind = "would_delete"
	KindDeleted     Kind = "deleted"
	KindRetained    Kind = "retained"
)

// Observation describes what happened to one group member.
type Observation struct {
	Kind     Kind
	Root     string
	GroupKey string
	Path     string
	Name     string
	Score    int
	// Err is set when a deletion was attempted and failed; the directory is
	// still on disk.
	Err error
}

// Observer receives observations in emission order.
type Observer interface {
	Observe(Observation)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Observation)

func (f ObserverFunc) Observe(o Observation) { f(o) }

type multiObserver []Observer

func (m multiObserver) Observe(o Observation) {
	for _, obs := range m {
		obs.Observe(o)
	}
}

// MultiObserver fans each observation out to every non-nil observer in order.
func MultiObserver(observers ...Observer) Observer {
	filtered := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return filtered
}
