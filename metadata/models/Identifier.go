package models

import (
	"regexp"
	"strings"

	"github.com/Open-MBEE/mcf-sub004/apperrors"
)

// Delimiter joins the segments of a composite identifier.
const Delimiter = ":"

// MasterBranch is the reserved leaf id of every project's root branch. The
// master branch can never be archived or deleted.
const MasterBranch = "master"

// DefaultMaxSegmentLength bounds a single identifier segment. The composite
// bound is cumulative over its segments.
const DefaultMaxSegmentLength = 36

// segmentPattern is the bit-exact identifier grammar. Lowercase only.
var segmentPattern = regexp.MustCompile(`^[a-z0-9_][a-z0-9_-]*$`)

// reservedSegments are ids that collide with routes or well-known names and
// may never be used as an identifier segment.
var reservedSegments = map[string]bool{
	"css":      true,
	"js":       true,
	"img":      true,
	"login":    true,
	"logout":   true,
	"about":    true,
	"api":      true,
	"branch":   true,
	"orgs":     true,
	"projects": true,
	"users":    true,
	"webhooks": true,
}

// CreateID joins segments into a composite identifier. Segments may
// themselves already be composite (a branch id plus an element leaf).
func CreateID(segments ...string) (string, error) {
	if len(segments) == 0 {
		return "", apperrors.NewDataFormatError("cannot create id from zero segments")
	}
	for _, s := range segments {
		if s == "" {
			return "", apperrors.NewDataFormatError("argument for createID is not a non-empty string")
		}
	}
	return strings.Join(segments, Delimiter), nil
}

// ParseID splits a composite identifier into its ordered segments. An id
// with no delimiter is not composite and is rejected.
func ParseID(id string) ([]string, error) {
	if !strings.Contains(id, Delimiter) {
		return nil, apperrors.NewDataFormatError("invalid id [%s]: no delimiter found", id)
	}
	return strings.Split(id, Delimiter), nil
}

// ValidSegment reports whether a single segment matches the identifier
// grammar, respects the length bound, and is not reserved.
func ValidSegment(segment string, maxLength int) bool {
	if maxLength <= 0 {
		maxLength = DefaultMaxSegmentLength
	}
	if len(segment) == 0 || len(segment) > maxLength {
		return false
	}
	if reservedSegments[segment] {
		return false
	}
	return segmentPattern.MatchString(segment)
}

// ValidateSegment is ValidSegment with a descriptive error.
func ValidateSegment(segment string, maxLength int) error {
	if !ValidSegment(segment, maxLength) {
		return apperrors.NewDataFormatError("invalid id segment [%s]", segment)
	}
	return nil
}

// Identifier is the parsed form of a composite id. Depth runs from 1
// (organization) to 4 (element). The zero value is invalid.
type Identifier struct {
	segments []string
}

// NewIdentifier builds an Identifier from ordered segments.
func NewIdentifier(segments ...string) (Identifier, error) {
	if len(segments) < 1 || len(segments) > 4 {
		return Identifier{}, apperrors.NewDataFormatError("identifier must have 1 to 4 segments, got %d", len(segments))
	}
	for _, s := range segments {
		if s == "" {
			return Identifier{}, apperrors.NewDataFormatError("identifier segment is empty")
		}
	}
	copied := make([]string, len(segments))
	copy(copied, segments)
	return Identifier{segments: copied}, nil
}

// ParseIdentifier parses a composite id string into an Identifier.
func ParseIdentifier(id string) (Identifier, error) {
	segments, err := ParseID(id)
	if err != nil {
		return Identifier{}, err
	}
	return NewIdentifier(segments...)
}

// Org is the organization segment.
func (i Identifier) Org() string { return i.segment(0) }

// Project is the project segment, or empty below project depth.
func (i Identifier) Project() string { return i.segment(1) }

// Branch is the branch segment, or empty below branch depth.
func (i Identifier) Branch() string { return i.segment(2) }

// Leaf is the last segment, the entity's own local id.
func (i Identifier) Leaf() string {
	if len(i.segments) == 0 {
		return ""
	}
	return i.segments[len(i.segments)-1]
}

// Depth is the number of segments.
func (i Identifier) Depth() int { return len(i.segments) }

// Segments returns a copy of the ordered segment list.
func (i Identifier) Segments() []string {
	out := make([]string, len(i.segments))
	copy(out, i.segments)
	return out
}

// BranchID is the org:project:branch prefix of an element-depth id, or the
// id itself at branch depth. Empty below branch depth.
func (i Identifier) BranchID() string {
	if len(i.segments) < 3 {
		return ""
	}
	return strings.Join(i.segments[:3], Delimiter)
}

// String is the canonical serialization: segments joined by the delimiter.
func (i Identifier) String() string {
	return strings.Join(i.segments, Delimiter)
}

func (i Identifier) segment(n int) string {
	if n >= len(i.segments) {
		return ""
	}
	return i.segments[n]
}
