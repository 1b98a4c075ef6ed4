package xapi

const (
	// APIURL is the base url of the X (Twitter) API v2
	APIURL = "https://api.twitter.com/2"

	// TweetFields is the fixed set of tweet fields requested on every read.
	// Every read call asks for the same fields so the CLI can always render
	// timestamps and engagement counts.
	TweetFields = "created_at,author_id,public_metrics,text,lang"

	// UserFields is the set of author fields requested alongside the
	// author_id expansion
	UserFields = "username,name,description,public_metrics"

	// Expansions requests the post author be included in the response
	Expansions = "author_id"

	// MaxPostLength is the platform limit on the length of a post, in
	// characters
	MaxPostLength = 280
)

// Post represents a single post (tweet) as returned by the v2 API. Only the
// fields listed in TweetFields are populated.
type Post struct {
	// ID of the post, platform-assigned and immutable
	ID string `json:"id"`

	// Text is the body of the post
	Text string `json:"text"`

	// CreatedAt is the creation timestamp as reported by the platform
	CreatedAt string `json:"created_at,omitempty"`

	// AuthorID is the id of the posting user. Resolve it through
	// Includes.Users when the author expansion was requested.
	AuthorID string `json:"author_id,omitempty"`

	Lang string `json:"lang,omitempty"`

	PublicMetrics *PostMetrics `json:"public_metrics,omitempty"`
}

// PostMetrics holds the public engagement counts of a post
type PostMetrics struct {
	RetweetCount int64 `json:"retweet_count"`
	ReplyCount   int64 `json:"reply_count"`
	LikeCount    int64 `json:"like_count"`
	QuoteCount   int64 `json:"quote_count"`
}

// User represents a platform user included via the author_id expansion
type User struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Username      string       `json:"username"`
	Description   string       `json:"description,omitempty"`
	PublicMetrics *UserMetrics `json:"public_metrics,omitempty"`
}

// UserMetrics holds the public counts of a user profile
type UserMetrics struct {
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	TweetCount     int64 `json:"tweet_count"`
}

// Includes carries the auxiliary entities referenced by a request's
// expansions
type Includes struct {
	Users []User `json:"users,omitempty"`
}

// SinglePost is the response shape of the single-item endpoint
type SinglePost struct {
	Data     Post      `json:"data"`
	Includes *Includes `json:"includes,omitempty"`
}

// PostList is the response shape of the user-timeline endpoint
type PostList struct {
	Data     []Post    `json:"data"`
	Includes *Includes `json:"includes,omitempty"`
}

// CreatedPost is the response shape of a successful create-post call. The
// platform occasionally returns an empty body on success, in which case the
// zero value is returned.
type CreatedPost struct {
	Data CreatedPostData `json:"data"`
}

type CreatedPostData struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
