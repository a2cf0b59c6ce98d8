package check

// Summary is the listing projection of a check.
type Summary struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CheckType string   `json:"checkType"`
	Activated bool     `json:"activated"`
	Frequency int      `json:"frequency"`
	Locations []string `json:"locations"`
	Tags      []string `json:"tags"`
	GroupID   *int64   `json:"groupId"`
	UpdatedAt string   `json:"updated_at"`
}

// Summarize projects c for listing.
func (c Check) Summarize() Summary {
	locations := c.Locations
	if locations == nil {
		locations = []string{}
	}
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return Summary{
		ID:        c.ID,
		Name:      c.Name,
		CheckType: c.CheckType,
		Activated: c.Activated,
		Frequency: c.Frequency,
		Locations: locations,
		Tags:      tags,
		GroupID:   c.GroupID,
		UpdatedAt: c.UpdatedAt,
	}
}

// Filter selects checks for listing.
type Filter struct {
	// Type matches checkType exactly when non-empty.
	Type string
	// GroupID matches groupId when non-nil.
	GroupID *int64
}

// Matches reports whether c passes the filter.
func (f Filter) Matches(c Check) bool {
	if f.Type != "" && c.CheckType != f.Type {
		return false
	}
	if f.GroupID != nil && (c.GroupID == nil || *c.GroupID != *f.GroupID) {
		return false
	}
	return true
}
