package protocol

// BranchResultset is a page of branches with paging metrics.
type BranchResultset struct {
	Resultset
	// Branches is the page of results
	Branches []Branch `json:"branches"`
}
