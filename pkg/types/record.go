package types

// Record represents a Notion page normalized into the fields the sync
// pipeline cares about. Zero values mean the property was absent.
type Record struct {
	ID            string
	Title         string
	Status        string
	Company       string
	CustomerTypes []string
	Priority      string
	Size          string
	InSync        bool
}

// Issue identifies a created GitHub issue. NodeID is the GraphQL node
// identity used for Projects v2 mutations.
type Issue struct {
	Number int
	URL    string
	NodeID string
}
