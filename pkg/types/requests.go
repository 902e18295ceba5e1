package types

// PostsRequest controls paging when listing a blog's posts.
type PostsRequest struct {
	// Limit specifies the maximum number of posts to retrieve.
	// If 0, the server default is used.
	Limit int

	// Offset is the opaque cursor from a previous page's Extra.Offset.
	Offset string
}

// CommentsRequest identifies a post and controls paging of its comments.
type CommentsRequest struct {
	// Blog is the blog name or URL slug. Required.
	Blog string

	// PostID is the post identifier. Required.
	PostID string

	// Limit specifies the maximum number of top-level comments to retrieve.
	Limit int

	// ReplyLimit specifies how many nested replies to include per comment.
	ReplyLimit int

	// Order sorts the comment page, e.g. "top" or "asc".
	Order string
}

// SubscriptionsRequest controls paging when listing the current user's
// subscriptions.
type SubscriptionsRequest struct {
	// Limit specifies the maximum number of subscriptions to retrieve.
	Limit int

	// WithFollow includes free follow relationships alongside paid
	// subscriptions.
	WithFollow bool
}

// ShowcaseRequest identifies a blog showcase page.
type ShowcaseRequest struct {
	// Blog is the blog name or URL slug. Required.
	Blog string

	// Limit specifies the maximum number of showcase items to retrieve.
	Limit int

	// Offset skips the given number of items.
	Offset int

	// OnlyVisible restricts the page to visible items when non-nil.
	OnlyVisible *bool
}
