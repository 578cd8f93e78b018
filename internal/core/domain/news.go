package domain

// News is a published announcement visible to all members.
type News struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	ImageURL *string `json:"imageURL,omitempty"`
	AuditFields
}

// NewsUpdate describes a partial update to a news item.
type NewsUpdate struct {
	Title    *string
	Content  *string
	ImageURL *string
}
