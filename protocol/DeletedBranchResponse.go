package protocol

// DeletedBranchResponse reports the branches a delete removed, with their
// fully-qualified composite identifiers.
type DeletedBranchResponse struct {
	// Deleted lists the composite ids of the removed branches
	Deleted []string `json:"deleted"`
}
