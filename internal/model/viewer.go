package model

// Viewer is the identity a representation is rendered for. The zero value is
// unset and must not be rendered with; use AnonymousViewer or NewViewer.
type Viewer struct {
	set       bool
	UserID    int64
	ProfileID int64
}

func AnonymousViewer() Viewer {
	return Viewer{set: true}
}

func NewViewer(userID, profileID int64) Viewer {
	return Viewer{set: true, UserID: userID, ProfileID: profileID}
}

func (v Viewer) IsSet() bool {
	return v.set
}

func (v Viewer) IsAnonymous() bool {
	return v.ProfileID == 0
}

// Is reports whether the viewer is the given profile.
func (v Viewer) Is(profileID int64) bool {
	return !v.IsAnonymous() && v.ProfileID == profileID
}

// Relations is a snapshot of the viewer's edges to the resources on one page.
// Lookups on a nil map return false, so the zero value reads as "no edges".
type Relations struct {
	// Following holds profiles the viewer follows.
	Following map[int64]bool
	// FollowedBy holds profiles that follow the viewer.
	FollowedBy map[int64]bool
	// Favourited holds posts the viewer has favourited.
	Favourited map[int64]bool
}

// Page is one page of a list together with the viewer's relations to it.
type Page[T any] struct {
	Items     []T
	Count     int
	Page      int
	PageSize  int
	Relations Relations
}
