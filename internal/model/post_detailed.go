package model

// PostDetailed is a post together with its resolved author and, when the post
// belongs to a group, the group itself.
type PostDetailed struct {
	Post   *Post  `json:"post"`
	Author *User  `json:"author"`
	Group  *Group `json:"group,omitempty"`
}
