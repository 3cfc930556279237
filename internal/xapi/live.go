package xapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// maxResponseBytes bounds how much of an API response is read.
const maxResponseBytes = 4 << 20

// liveSource talks to the X API v2 with app-only bearer auth. Every
// operation degrades to demo data (or zero) on failure instead of
// surfacing an error.
type liveSource struct {
	bearer     string
	baseURL    string
	client     *http.Client
	limiter    *rate.Limiter
	retryDelay time.Duration
	log        zerolog.Logger
}

func newLiveSource(bearer string, log zerolog.Logger) *liveSource {
	return &liveSource{
		bearer:     bearer,
		baseURL:    "https://api.twitter.com",
		client:     &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		retryDelay: time.Second,
		log:        log,
	}
}

func (s *liveSource) Mode() Mode { return ModeLive }

// userResponse mirrors the /2/users lookup payload.
type userResponse struct {
	Data struct {
		ID            string `json:"id"`
		Username      string `json:"username"`
		Name          string `json:"name"`
		PublicMetrics struct {
			FollowersCount int `json:"followers_count"`
			FollowingCount int `json:"following_count"`
			TweetCount     int `json:"tweet_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

// timelineResponse mirrors the /2/users/:id/tweets payload.
type timelineResponse struct {
	Data []tweetJSON `json:"data"`
	Meta struct {
		ResultCount int    `json:"result_count"`
		NextToken   string `json:"next_token"`
	} `json:"meta"`
}

type tweetJSON struct {
	ID            string    `json:"id"`
	Text          string    `json:"text"`
	CreatedAt     time.Time `json:"created_at"`
	PublicMetrics struct {
		RetweetCount int `json:"retweet_count"`
		ReplyCount   int `json:"reply_count"`
		LikeCount    int `json:"like_count"`
		QuoteCount   int `json:"quote_count"`
	} `json:"public_metrics"`
	ReferencedTweets []tweetRef `json:"referenced_tweets"`
}

type tweetRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func (s *liveSource) Account(ctx context.Context, username string) AccountSnapshot {
	q := url.Values{}
	q.Set("user.fields", "public_metrics,name")

	var resp userResponse
	err := s.getJSON(ctx, "/2/users/by/username/"+url.PathEscape(username), q, &resp)
	if err != nil {
		s.log.Warn().Err(err).Str("username", username).Msg("account lookup failed, serving demo data")
		return demoAccount(username)
	}
	if resp.Data.ID == "" {
		s.log.Warn().Str("username", username).Msg("account lookup returned no user, serving demo data")
		return demoAccount(username)
	}
	return AccountSnapshot{
		ID:          resp.Data.ID,
		Username:    resp.Data.Username,
		DisplayName: resp.Data.Name,
		TotalPosts:  resp.Data.PublicMetrics.TweetCount,
		Followers:   resp.Data.PublicMetrics.FollowersCount,
		Following:   resp.Data.PublicMetrics.FollowingCount,
	}
}

func (s *liveSource) RecentPosts(ctx context.Context, accountID string, max int) []Post {
	q := url.Values{}
	q.Set("max_results", strconv.Itoa(max))
	q.Set("tweet.fields", "created_at,public_metrics,referenced_tweets")

	var resp timelineResponse
	err := s.getJSON(ctx, "/2/users/"+url.PathEscape(accountID)+"/tweets", q, &resp)
	if err != nil {
		s.log.Warn().Err(err).Str("account_id", accountID).Msg("timeline fetch failed, serving demo data")
		return demoPosts()
	}

	posts := make([]Post, 0, len(resp.Data))
	for _, t := range resp.Data {
		posts = append(posts, Post{
			ID:        t.ID,
			Text:      truncateText(t.Text, maxPostRunes),
			CreatedAt: t.CreatedAt,
			Kind:      classify(t.ReferencedTweets),
			Reposts:   t.PublicMetrics.RetweetCount,
			Likes:     t.PublicMetrics.LikeCount,
			Replies:   t.PublicMetrics.ReplyCount,
		})
	}
	return posts
}

// CountRange pages through the timeline restricted to [start, end),
// summing page sizes until the API stops handing out a next token.
// Any failed page yields 0 for the whole count.
func (s *liveSource) CountRange(ctx context.Context, accountID string, start, end time.Time) int {
	if !start.Before(end) {
		return 0
	}

	total := 0
	token := ""
	for {
		q := url.Values{}
		q.Set("max_results", "100")
		q.Set("start_time", start.UTC().Format(time.RFC3339))
		q.Set("end_time", end.UTC().Format(time.RFC3339))
		q.Set("tweet.fields", "created_at")
		if token != "" {
			q.Set("pagination_token", token)
		}

		var resp timelineResponse
		err := s.getJSON(ctx, "/2/users/"+url.PathEscape(accountID)+"/tweets", q, &resp)
		if err != nil {
			s.log.Warn().Err(err).Str("account_id", accountID).Msg("range count failed")
			return 0
		}
		total += len(resp.Data)
		if resp.Meta.NextToken == "" {
			return total
		}
		token = resp.Meta.NextToken
	}
}

// classify maps referenced-tweet markers to a PostKind. Markers are
// checked in priority order reply > repost > quote; a post carrying
// several markers takes the highest-priority one.
func classify(refs []tweetRef) PostKind {
	var reply, repost, quote bool
	for _, ref := range refs {
		switch ref.Type {
		case "replied_to":
			reply = true
		case "retweeted":
			repost = true
		case "quoted":
			quote = true
		}
	}
	switch {
	case reply:
		return KindReply
	case repost:
		return KindRepost
	case quote:
		return KindQuote
	default:
		return KindOriginal
	}
}

// getJSON performs one rate-limited GET against the API and decodes the
// body into out. 429 and 5xx responses are retried once, honoring
// Retry-After; other failures return immediately.
func (s *liveSource) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	delay := s.retryDelay

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path+"?"+q.Encode(), nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+s.bearer)

		resp, err := s.client.Do(req)
		if err != nil {
			return fmt.Errorf("get %s: %w", path, err)
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}
			return nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = fmt.Errorf("%s returned status %d", path, resp.StatusCode)
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
					delay = time.Duration(secs) * time.Second
					if delay > 30*time.Second {
						delay = 30 * time.Second
					}
				}
			}
		default:
			return fmt.Errorf("%s returned status %d: %s", path, resp.StatusCode, body)
		}
	}
	return lastErr
}
