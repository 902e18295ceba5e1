// Package types contains the data models for the Boosty API.
//
// Response envelopes follow the platform's wire format: list endpoints wrap
// their items in a "data" array, usually next to an "extra" object carrying
// the pagination cursor. Rich post and comment bodies arrive as ordered
// sequences of tagged content blocks; see content.go for the typed extraction.
package types

import "strings"

// PageExtra carries the pagination cursor returned by list endpoints.
type PageExtra struct {
	// Offset is the opaque cursor for the next page.
	Offset string `json:"offset"`
	// IsLast reports whether this page is the final one.
	IsLast bool `json:"isLast"`
}

// User is the author or owner of a blog, post, or comment.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BlogURL   string `json:"blogUrl"`
	HasAvatar bool   `json:"hasAvatar"`
	AvatarURL string `json:"avatarUrl"`
	Flags     Flags  `json:"flags"`
}

// Flags holds user-level feature flags.
type Flags struct {
	ShowPostDonations bool `json:"showPostDonations"`
}

// Reactions summarises reaction counts on a post or comment.
type Reactions struct {
	Like    int `json:"like"`
	Dislike int `json:"dislike"`
	Heart   int `json:"heart"`
	Fire    int `json:"fire"`
	Angry   int `json:"angry"`
	Wonder  int `json:"wonder"`
	Laught  int `json:"laught"`
	Sad     int `json:"sad"`
}

// ReactionCounter is a single typed reaction tally.
type ReactionCounter struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// Count aggregates per-post counters.
type Count struct {
	Comments  int       `json:"comments"`
	Likes     int       `json:"likes"`
	Reactions Reactions `json:"reactions"`
}

// CurrencyPrices lists the post or level price in supported currencies.
type CurrencyPrices struct {
	RUB float64 `json:"rub"`
	USD float64 `json:"usd"`
}

// ContentCounter counts content items of one type inside a post.
type ContentCounter struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
	Size  uint64 `json:"size"`
}

// Tag is a post tag.
type Tag struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// SearchTag is a tag with its search rank.
type SearchTag struct {
	Rank int64 `json:"rank"`
	Tag  Tag   `json:"tag"`
}

// TagsResponse is the envelope for a blog's tag list.
type TagsResponse struct {
	Data []Tag `json:"data"`
}

// SearchTagsResponse is the envelope for a tag search.
type SearchTagsResponse struct {
	Data  SearchTagsData `json:"data"`
	Extra PageExtra      `json:"extra"`
}

// SearchTagsData holds the matched tags of a search.
type SearchTagsData struct {
	SearchTags []SearchTag `json:"searchTags"`
}

// Post is a single post fetched from the API.
type Post struct {
	ID               string           `json:"id"`
	IntID            int64            `json:"int_id"`
	Title            string           `json:"title"`
	User             User             `json:"user"`
	HasAccess        bool             `json:"hasAccess"`
	Data             []ContentBlock   `json:"data"`
	Teaser           []ContentBlock   `json:"teaser"`
	IsPinned         bool             `json:"isPinned"`
	IsBlocked        bool             `json:"isBlocked"`
	IsPublished      bool             `json:"isPublished"`
	IsDeleted        bool             `json:"isDeleted"`
	IsLiked          bool             `json:"isLiked"`
	IsCommentsDenied bool             `json:"isCommentsDenied"`
	IsWaitingVideo   bool             `json:"isWaitingVideo"`
	ShowViewsCounter bool             `json:"showViewsCounter"`
	Tags             []Tag            `json:"tags"`
	ContentCounters  []ContentCounter `json:"contentCounters"`
	Count            Count            `json:"count"`
	CreatedAt        int64            `json:"createdAt"`
	PublishTime      int64            `json:"publishTime"`
	UpdatedAt        int64            `json:"updatedAt"`
	Price            int              `json:"price"`
	CurrencyPrices   CurrencyPrices   `json:"currencyPrices"`
	Donations        float64          `json:"donations"`
	SignedQuery      string           `json:"signedQuery"`
}

// NotAvailable reports whether the post content is inaccessible to the
// current credential: either access is denied outright or the content
// blocks were stripped from the response.
func (p *Post) NotAvailable() bool {
	return !p.HasAccess || len(p.Data) == 0
}

// SafeTitle returns the post title, or a placeholder derived from the post
// ID when the title is blank.
func (p *Post) SafeTitle() string {
	if strings.TrimSpace(p.Title) == "" {
		return "untitled_" + p.ID
	}
	return p.Title
}

// ExtractContent converts the post's raw content blocks into typed items.
func (p *Post) ExtractContent() []ContentItem {
	return ExtractContent(p.Data)
}

// PostsResponse is the envelope for a page of posts.
type PostsResponse struct {
	Data  []Post    `json:"data"`
	Extra PageExtra `json:"extra"`
}

// Author identifies the writer of a comment.
type Author struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	HasAvatar bool   `json:"hasAvatar"`
	AvatarURL string `json:"avatarUrl"`
}

// PostRef links a comment back to its post.
type PostRef struct {
	ID string `json:"id"`
}

// CommentsExtra carries the window position of a comment page.
type CommentsExtra struct {
	IsFirst bool `json:"isFirst"`
	IsLast  bool `json:"isLast"`
}

// Comment is a single comment, possibly carrying a page of nested replies.
type Comment struct {
	ID               string            `json:"id"`
	IntID            int64             `json:"intId"`
	Post             PostRef           `json:"post"`
	Author           Author            `json:"author"`
	Data             []ContentBlock    `json:"data"`
	CreatedAt        int64             `json:"createdAt"`
	UpdatedAt        *int64            `json:"updatedAt"`
	IsDeleted        bool              `json:"isDeleted"`
	IsBlocked        bool              `json:"isBlocked"`
	IsUpdated        bool              `json:"isUpdated"`
	ReplyCount       int               `json:"replyCount"`
	Replies          Replies           `json:"replies"`
	Reactions        Reactions         `json:"reactions"`
	ReactionCounters []ReactionCounter `json:"reactionCounters"`
	ParentID         *int64            `json:"parentId"`
	ReplyID          *int64            `json:"replyId"`
	ReplyToUser      *Author           `json:"replyToUser"`
}

// ExtractContent converts the comment's raw content blocks into typed items.
func (c *Comment) ExtractContent() []ContentItem {
	return ExtractContent(c.Data)
}

// Replies is the nested reply page embedded in a comment.
type Replies struct {
	Data  []Comment     `json:"data"`
	Extra CommentsExtra `json:"extra"`
}

// CommentsResponse is the envelope for a page of comments.
type CommentsResponse struct {
	Data  []Comment     `json:"data"`
	Extra CommentsExtra `json:"extra"`
}

// Target is a funding goal of a blog.
type Target struct {
	ID          uint64  `json:"id"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	BloggerID   int64   `json:"bloggerId"`
	BloggerURL  string  `json:"bloggerUrl"`
	Priority    int     `json:"priority"`
	TargetSum   float64 `json:"targetSum"`
	CurrentSum  float64 `json:"currentSum"`
	CreatedAt   int64   `json:"createdAt"`
	FinishTime  *int64  `json:"finishTime"`
}

// TargetsResponse is the envelope for a blog's target list.
type TargetsResponse struct {
	Data []Target `json:"data"`
}

// Promo is a promotional campaign attached to a subscription level.
type Promo struct {
	ID          uint64  `json:"id"`
	Type        string  `json:"type"`
	Description *string `json:"description"`
	StartTime   int64   `json:"startTime"`
	EndTime     *int64  `json:"endTime"`
	IsFinished  bool    `json:"isFinished"`
}

// SubscriptionLevel describes one paid tier of a blog.
type SubscriptionLevel struct {
	ID             uint64             `json:"id"`
	Name           string             `json:"name"`
	Price          float64            `json:"price"`
	CurrencyPrices map[string]float64 `json:"currencyPrices"`
	IsLimited      bool               `json:"isLimited"`
	IsArchived     bool               `json:"isArchived"`
	IsHidden       bool               `json:"isHidden"`
	Deleted        bool               `json:"deleted"`
	OwnerID        uint64             `json:"ownerId"`
	CreatedAt      int64              `json:"createdAt"`
	Promos         []Promo            `json:"promos"`
	Data           []ContentBlock     `json:"data"`
}

// ExtractContent converts the level's description blocks into typed items.
func (l *SubscriptionLevel) ExtractContent() []ContentItem {
	return ExtractContent(l.Data)
}

// SubscriptionLevelsResponse is the envelope for a blog's level list.
type SubscriptionLevelsResponse struct {
	Data []SubscriptionLevel `json:"data"`
}

// BlogInfo is the blog summary embedded in a subscription.
type BlogInfo struct {
	BlogURL         string `json:"blogUrl"`
	Title           string `json:"title"`
	CoverURL        string `json:"coverUrl"`
	HasAdultContent bool   `json:"hasAdultContent"`
	Owner           Author `json:"owner"`
}

// Subscription is one subscription held by the current user.
type Subscription struct {
	ID          uint64   `json:"id"`
	LevelID     uint64   `json:"levelId"`
	ParentID    *uint64  `json:"parentId"`
	Name        string   `json:"name"`
	Price       int64    `json:"price"`
	CustomPrice int64    `json:"customPrice"`
	Period      int      `json:"period"`
	OnTime      int64    `json:"onTime"`
	OffTime     *int64   `json:"offTime"`
	NextPayTime *int64   `json:"nextPayTime"`
	IsPause     bool     `json:"isPause"`
	IsSuspended bool     `json:"isSuspended"`
	IsArchived  bool     `json:"isArchived"`
	OwnerID     uint64   `json:"ownerId"`
	Blog        BlogInfo `json:"blog"`
}

// SubscriptionsResponse is the envelope for the user's subscription list.
type SubscriptionsResponse struct {
	Data   []Subscription `json:"data"`
	Total  uint64         `json:"total"`
	Limit  uint64         `json:"limit"`
	Offset uint64         `json:"offset"`
}

// ShowcaseCounters tallies the visible items of a blog showcase.
type ShowcaseCounters struct {
	VisibleTotal        int64 `json:"visibleTotal"`
	VisiblePostsCount   int64 `json:"visiblePostsCount"`
	VisibleBundlesCount int64 `json:"visibleBundlesCount"`
}

// ShowcaseExtra carries pagination and status info for a showcase page.
type ShowcaseExtra struct {
	Offset    int64            `json:"offset"`
	BlogID    int64            `json:"blogId"`
	Counters  ShowcaseCounters `json:"counters"`
	IsEnabled bool             `json:"isEnabled"`
	IsLast    bool             `json:"isLast"`
}

// ShowcaseItem is one entry of a blog showcase.
type ShowcaseItem struct {
	ShowcaseItemID int64  `json:"showcaseItemId"`
	ItemType       string `json:"itemType"`
	ItemID         string `json:"itemId"`
	IsVisible      bool   `json:"isVisible"`
	Position       int64  `json:"position"`
	Post           Post   `json:"post"`
}

// ShowcaseData holds the items of a showcase page.
type ShowcaseData struct {
	ShowcaseItems []ShowcaseItem `json:"showcaseItems"`
}

// ShowcaseResponse is the envelope for a blog showcase page.
type ShowcaseResponse struct {
	Data  ShowcaseData  `json:"data"`
	Extra ShowcaseExtra `json:"extra"`
}
