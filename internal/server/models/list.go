package models

// List is a named collection of tasks. A list without an owner is anonymous
// and reachable only through the browser session it was minted for.
type List struct {
	ID      int64
	OwnerID *int64
	Title   string
	Saved   bool
}

// IsClaimed reports whether the list has an owning user.
func (l *List) IsClaimed() bool {
	return l.OwnerID != nil
}

// OwnedBy reports whether userID owns the list.
func (l *List) OwnedBy(userID int64) bool {
	return l.OwnerID != nil && *l.OwnerID == userID
}
