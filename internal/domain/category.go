package domain

// Category classifies tickets. Tickets reference categories by Key; deleting
// a category does not cascade to tickets that reference it.
type Category struct {
	ID          int
	Key         string
	Label       string
	Icon        string
	Color       string
	Active      bool
	Description string
}

// Priority is ticket urgency reference data. Level drives ordering and SLA
// decisions (higher is more urgent). The set of active priorities must never
// become empty; the priority store enforces that at delete/deactivate time.
type Priority struct {
	ID     int
	Key    string
	Label  string
	Level  int
	Color  string
	Icon   string
	Active bool
}
