package reservation

// Observer is notified after ledger writes commit.
type Observer interface {
	Created(r *Reservation)
	Conflict(resourceID string)
	Transitioned(from, to State)
	Removed()
}

type nopObserver struct{}

func (nopObserver) Created(*Reservation)      {}
func (nopObserver) Conflict(string)           {}
func (nopObserver) Transitioned(State, State) {}
func (nopObserver) Removed()                  {}
