package branches

import (
	"time"

	"github.com/Open-MBEE/mcf-sub004/metadata/models"
)

// CloneElements builds the element documents for newly created branches by
// re-keying every element of the source branch into each new branch's
// namespace. Identifiers, parents, and intra-source relationship endpoints
// are rebased onto the new branch; references reaching outside the source
// branch keep their meaning and are copied verbatim.
func CloneElements(sourceBranchID string, elements []models.MCFElement, newBranches []models.MCFBranch, username string, now time.Time) ([]models.MCFElement, error) {
	clones := make([]models.MCFElement, 0, len(elements)*len(newBranches))
	for _, branch := range newBranches {
		for _, element := range elements {
			leaf, err := leafOf(element.ID)
			if err != nil {
				return nil, err
			}
			newID, err := models.CreateID(branch.ID, leaf)
			if err != nil {
				return nil, err
			}

			clone := element
			clone.ID = newID
			clone.Project = branch.Project
			clone.Branch = branch.ID
			clone.ModifiedBy = username
			clone.ModifiedDate = now

			if element.Parent.Valid {
				parentLeaf, err := leafOf(element.Parent.String)
				if err != nil {
					return nil, err
				}
				newParent, err := models.CreateID(branch.ID, parentLeaf)
				if err != nil {
					return nil, err
				}
				clone.Parent = models.ToNullString(newParent)
			}

			clone.Source = rebaseReference(element.Source, sourceBranchID, branch.ID)
			clone.Target = rebaseReference(element.Target, sourceBranchID, branch.ID)

			clones = append(clones, clone)
		}
	}
	return clones, nil
}

// CloneArtifacts builds the artifact documents for newly created branches.
// Artifacts carry no parent/source/target; only the identifier is rebased.
// Location is copied verbatim: clones share the stored content.
func CloneArtifacts(artifacts []models.MCFArtifact, newBranches []models.MCFBranch, username string, now time.Time) ([]models.MCFArtifact, error) {
	clones := make([]models.MCFArtifact, 0, len(artifacts)*len(newBranches))
	for _, branch := range newBranches {
		for _, artifact := range artifacts {
			leaf, err := leafOf(artifact.ID)
			if err != nil {
				return nil, err
			}
			newID, err := models.CreateID(branch.ID, leaf)
			if err != nil {
				return nil, err
			}

			clone := artifact
			clone.ID = newID
			clone.Project = branch.Project
			clone.Branch = branch.ID
			clone.ModifiedBy = username
			clone.ModifiedDate = now

			clones = append(clones, clone)
		}
	}
	return clones, nil
}

// rebaseReference rewrites a source/target reference into the new branch
// namespace when it points inside the branch being cloned. A reference to
// another branch or project is a cross-cutting link; rewriting it would
// silently change its meaning, so it is preserved as-is. Malformed values
// are likewise passed through untouched.
func rebaseReference(ref models.NullString, sourceBranchID string, newBranchID string) models.NullString {
	if !ref.Valid {
		return ref
	}
	id, err := models.ParseIdentifier(ref.String)
	if err != nil || id.BranchID() != sourceBranchID {
		return ref
	}
	rebased, err := models.CreateID(newBranchID, id.Leaf())
	if err != nil {
		return ref
	}
	return models.ToNullString(rebased)
}

// leafOf returns the last segment of a composite id.
func leafOf(id string) (string, error) {
	segments, err := models.ParseID(id)
	if err != nil {
		return "", err
	}
	return segments[len(segments)-1], nil
}
