package metadata

// Metadata is the record carried by a commit trailer.
type Metadata struct {
	Kind Kind `json:"type"`
	// PR is the originating pull or merge request, if any.
	PR *URL `json:"pr"`
	// Fixes lists resolved issues in authored order. Never nil on values
	// produced by Default, Clone or decoding.
	Fixes []URL `json:"fixes"`
	// CoAuthoredBy names one additional author, "Name <email>" by convention.
	CoAuthoredBy *string `json:"co-authored-by"`
}

// Commit is the view of a version-control commit that metadata needs.
type Commit interface {
	// ID returns a displayable identifier, such as the commit hash.
	ID() string
	// MessageBytes returns the raw commit message.
	MessageBytes() []byte
}

// Default returns the neutral record used when building metadata by hand.
// It is never substituted for a missing or malformed trailer.
func Default() Metadata {
	return Metadata{
		Kind:  Changed,
		Fixes: []URL{},
	}
}

// Clone returns a deep copy of m.
func (m Metadata) Clone() Metadata {
	c := Metadata{
		Kind:  m.Kind,
		Fixes: make([]URL, len(m.Fixes)),
	}
	copy(c.Fixes, m.Fixes)
	if m.PR != nil {
		pr := *m.PR
		c.PR = &pr
	}
	if m.CoAuthoredBy != nil {
		author := *m.CoAuthoredBy
		c.CoAuthoredBy = &author
	}
	return c
}
