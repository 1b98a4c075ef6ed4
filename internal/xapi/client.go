package xapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dghubble/oauth1"
	"go.uber.org/zap"

	"x-fetcher/internal/creds"
)

const (
	httpTimeout = time.Second * 30

	userAgent = "x-fetcher"
)

// Client is responsible for interacting with the X API v2 to read posts and
// publish replies. Reads authenticate with the bearer token, replies with
// the OAuth 1.0a user-context keys.
type Client struct {
	logger      *zap.Logger
	credentials creds.Credentials
	c           *http.Client

	// baseURL is APIURL outside of tests
	baseURL string
}

// NewClient returns an instantiated client. The client has the following
// dependencies:
//
// logger - for structured logging
//
// credentials - resolved auth material; which fields must be set depends on
// the calls made, so an empty value is accepted here and enforced per call
//
// Usage Example:
//  c, err := NewClient(logger, credentials)
//  if err != nil { // handle err }
//
//  // fetch the five most recent posts of a user, skipping retweets
//  params := PostsParams{
//    MaxResults:      5,
//    ExcludeRetweets: true,
//  }
//  list, err := c.GetUserPosts("elonmusk", &params)
//  if err != nil { // handle err }
func NewClient(logger *zap.Logger, credentials creds.Credentials) (*Client, error) {
	if logger == nil {
		return nil, errors.New("unable to initialize a new X API client due to the missing logger dependency")
	}

	return &Client{
		logger:      logger,
		credentials: credentials,
		c:           &http.Client{Timeout: httpTimeout},
		baseURL:     APIURL,
	}, nil
}

// GetTweet fetches a single post by id, with the author included via the
// author_id expansion.
func (c *Client) GetTweet(id string) (*SinglePost, error) {
	logger := c.logger.With(zap.String("tweetId", id))

	body, err := c.get("/tweets/"+id, expansionParams())
	if err != nil {
		const msg = "unable to get tweet"
		logger.Error(msg, zap.Error(err))
		return nil, fmt.Errorf(msg+": %w", err)
	}

	var post SinglePost
	if err := json.Unmarshal(body, &post); err != nil {
		const msg = "unable to decode tweet response"
		logger.Error(msg, zap.Error(err))
		return nil, fmt.Errorf(msg+": %w", err)
	}

	logger.Debug("fetched tweet")

	return &post, nil
}

// GetUserID resolves a username (handle) to its numeric user id. A leading @
// is accepted and stripped. Every call re-resolves; nothing is cached.
func (c *Client) GetUserID(handle string) (string, error) {
	handle = strings.TrimLeft(handle, "@")
	logger := c.logger.With(zap.String("username", handle))

	body, err := c.get("/users/by/username/"+handle, nil)
	if err != nil {
		const msg = "unable to look up username"
		logger.Error(msg, zap.Error(err))
		return "", fmt.Errorf(msg+": %w", err)
	}

	// the platform reports an unknown user as a 200 with no data key
	var res struct {
		Data *User `json:"data"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		const msg = "unable to decode username lookup response"
		logger.Error(msg, zap.Error(err))
		return "", fmt.Errorf(msg+": %w", err)
	}

	if res.Data == nil {
		logger.Debug("no user for handle")
		return "", fmt.Errorf("%s: %w", handle, ErrUserNotFound)
	}

	return res.Data.ID, nil
}

// PostsParams configures a GetUserPosts call. The zero MaxResults means the
// default of 10; other values are clamped into [1,100], the platform hard
// limit. The exclusion flags both default to off for bulk fetches.
type PostsParams struct {
	MaxResults      int
	ExcludeReplies  bool
	ExcludeRetweets bool
}

func defaultPostsParams() *PostsParams {
	return &PostsParams{MaxResults: 10}
}

func configureParams(params *PostsParams) {
	if params.MaxResults == 0 {
		params.MaxResults = 10
	} else {
		params.MaxResults = max(min(params.MaxResults, 100), 1)
	}
}

// GetUserPosts fetches the recent posts of a user identified by handle or
// numeric id. A fully numeric identifier is used as the user id directly;
// anything else is resolved through GetUserID first.
func (c *Client) GetUserPosts(usernameOrID string, params *PostsParams) (*PostList, error) {
	logger := c.logger.With(zap.String("user", usernameOrID))

	if params == nil {
		params = defaultPostsParams()
	}
	configureParams(params)

	userID := usernameOrID
	if !isNumericID(usernameOrID) {
		var err error
		userID, err = c.GetUserID(usernameOrID)
		if err != nil {
			const msg = "unable to resolve user id"
			logger.Error(msg, zap.Error(err))
			return nil, fmt.Errorf(msg+": %w", err)
		}
	}

	q := expansionParams()
	q.Set("max_results", strconv.Itoa(params.MaxResults))

	var exclude []string
	if params.ExcludeReplies {
		exclude = append(exclude, "replies")
	}
	if params.ExcludeRetweets {
		exclude = append(exclude, "retweets")
	}
	if len(exclude) > 0 {
		q.Set("exclude", strings.Join(exclude, ","))
	}

	body, err := c.get("/users/"+userID+"/tweets", q)
	if err != nil {
		const msg = "unable to get user posts"
		logger.Error(msg, zap.Error(err))
		return nil, fmt.Errorf(msg+": %w", err)
	}

	var list PostList
	if err := json.Unmarshal(body, &list); err != nil {
		const msg = "unable to decode user posts response"
		logger.Error(msg, zap.Error(err))
		return nil, fmt.Errorf(msg+": %w", err)
	}

	logger.Debug("fetched user posts", zap.Int("numPosts", len(list.Data)))

	return &list, nil
}

// LatestParams configures a GetLatestPost call. Unlike PostsParams, a nil
// LatestParams excludes both replies and retweets: the latest post of a user
// usually means their latest original post.
type LatestParams struct {
	ExcludeReplies  bool
	ExcludeRetweets bool
}

// GetLatestPost returns the most recent qualifying post of a user, or nil if
// they have none. An empty timeline is not an error.
func (c *Client) GetLatestPost(usernameOrID string, params *LatestParams) (*Post, error) {
	if params == nil {
		params = &LatestParams{ExcludeReplies: true, ExcludeRetweets: true}
	}

	list, err := c.GetUserPosts(usernameOrID, &PostsParams{
		MaxResults:      1,
		ExcludeReplies:  params.ExcludeReplies,
		ExcludeRetweets: params.ExcludeRetweets,
	})
	if err != nil {
		return nil, err
	}

	if len(list.Data) == 0 {
		return nil, nil
	}

	post := list.Data[0]

	return &post, nil
}

type createPostPayload struct {
	Text  string    `json:"text"`
	Reply *replyRef `json:"reply,omitempty"`
}

type replyRef struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

// ReplyTo posts a reply to the given post. The text is validated client-side
// against the platform length limit before any request is constructed, so an
// oversized reply never costs a signed call.
func (c *Client) ReplyTo(tweetID, text string) (*CreatedPost, error) {
	logger := c.logger.With(zap.String("tweetId", tweetID))

	if utf8.RuneCountInString(text) > MaxPostLength {
		err := &ValidationError{
			Reason: fmt.Sprintf("reply text must be %d characters or less", MaxPostLength),
		}
		logger.Error("invalid reply text", zap.Error(err), zap.Int("length", utf8.RuneCountInString(text)))
		return nil, err
	}

	keys, err := c.credentials.OAuth1()
	if err != nil {
		const msg = "unable to resolve write credentials"
		logger.Error(msg, zap.Error(err))
		return nil, fmt.Errorf(msg+": %w", err)
	}

	payload := createPostPayload{
		Text:  text,
		Reply: &replyRef{InReplyToTweetID: tweetID},
	}

	b, err := json.Marshal(payload)
	if err != nil {
		const msg = "unable to marshal reply payload"
		logger.Error(msg, zap.Error(err))
		return nil, fmt.Errorf(msg+": %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/tweets", bytes.NewReader(b))
	if err != nil {
		const msg = "unable to create reply request"
		logger.Error(msg, zap.Error(err))
		return nil, fmt.Errorf(msg+": %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := oauth1Client(keys).Do(req)
	if err != nil {
		terr := &TransportError{Err: err}
		const msg = "unable to post reply"
		logger.Error(msg, zap.Error(terr))
		return nil, fmt.Errorf(msg+": %w", terr)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		const msg = "unable to read reply response body"
		logger.Error(msg, zap.Error(err))
		return nil, fmt.Errorf(msg+": %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		aerr := &APIError{StatusCode: resp.StatusCode, Body: string(body)}
		const msg = "received failure status posting reply"
		logger.Error(msg, zap.Int("statusCode", resp.StatusCode), zap.String("body", string(body)))
		return nil, fmt.Errorf(msg+": %w", aerr)
	}

	// a 200/201 with an empty body still counts as success
	if len(bytes.TrimSpace(body)) == 0 {
		return &CreatedPost{}, nil
	}

	var created CreatedPost
	if err := json.Unmarshal(body, &created); err != nil {
		const msg = "unable to decode reply response"
		logger.Error(msg, zap.Error(err))
		return nil, fmt.Errorf(msg+": %w", err)
	}

	logger.Debug("posted reply", zap.String("replyId", created.Data.ID))

	return &created, nil
}

// get issues one bearer-authenticated GET and returns the raw body of a 200
// response. Non-200 statuses become an APIError, connection-level failures a
// TransportError.
func (c *Client) get(path string, params url.Values) ([]byte, error) {
	token, err := c.credentials.Bearer()
	if err != nil {
		return nil, err
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("unable to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

func expansionParams() url.Values {
	q := make(url.Values)
	q.Set("tweet.fields", TweetFields)
	q.Set("expansions", Expansions)
	q.Set("user.fields", UserFields)

	return q
}

func oauth1Client(keys creds.OAuth1Keys) *http.Client {
	config := oauth1.NewConfig(keys.ConsumerKey, keys.ConsumerSecret)
	token := oauth1.NewToken(keys.AccessToken, keys.AccessTokenSecret)

	hc := config.Client(oauth1.NoContext, token)
	hc.Timeout = httpTimeout

	return hc
}

func isNumericID(s string) bool {
	if s == "" {
		return false
	}

	for i := range s {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func max(i, j int) int {
	if i > j {
		return i
	}

	return j
}

func min(i, j int) int {
	if i < j {
		return i
	}

	return j
}
