package tag

// CreateTagRequest represents the input for creating a tag.
type CreateTagRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// ResolveTagsRequest lists the tag names to look up or create.
type ResolveTagsRequest struct {
	Names []string `json:"names" binding:"required,min=1"`
}
