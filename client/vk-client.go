package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"sovabet/metrics"
)

// VKClient fetches wall comments, the raw prediction supply. The VK API
// allows a handful of requests per second per token, enforced here with
// a shared ticker.
type VKClient struct {
	accessToken string
	version     string
	ownerId     int
	client      *http.Client
	baseURL     string
	rateLimiter *time.Ticker
	mu          sync.Mutex
}

func NewVKClient(accessToken string, version string, ownerId int) *VKClient {
	return &VKClient{
		accessToken: accessToken,
		version:     version,
		ownerId:     ownerId,
		client:      &http.Client{Timeout: 10 * time.Second},
		baseURL:     "https://api.vk.com/method",
		rateLimiter: time.NewTicker(350 * time.Millisecond),
	}
}

type VKComment struct {
	Id     int64  `json:"id"`
	FromId int64  `json:"from_id"`
	Date   int64  `json:"date"`
	Text   string `json:"text"`
}

type VKProfile struct {
	Id        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (p *VKProfile) DisplayName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

type commentsResponse struct {
	Response *struct {
		Count    int          `json:"count"`
		Items    []*VKComment `json:"items"`
		Profiles []*VKProfile `json:"profiles"`
	} `json:"response"`
	Error *struct {
		ErrorCode int    `json:"error_code"`
		ErrorMsg  string `json:"error_msg"`
	} `json:"error"`
}

// GetComments pages through all comments on a wall post and returns them
// together with the author names resolved from the extended response.
func (c *VKClient) GetComments(postId int64) ([]*VKComment, map[int64]string, error) {
	comments := make([]*VKComment, 0)
	names := make(map[int64]string)
	offset := 0
	for {
		batch, profiles, count, err := c.getCommentsPage(postId, offset)
		if err != nil {
			return nil, nil, err
		}
		comments = append(comments, batch...)
		for _, profile := range profiles {
			names[profile.Id] = profile.DisplayName()
		}
		offset += len(batch)
		if offset >= count || len(batch) == 0 {
			break
		}
	}
	return comments, names, nil
}

func (c *VKClient) getCommentsPage(postId int64, offset int) ([]*VKComment, []*VKProfile, int, error) {
	c.mu.Lock()
	<-c.rateLimiter.C
	c.mu.Unlock()

	params := url.Values{}
	params.Set("access_token", c.accessToken)
	params.Set("v", c.version)
	params.Set("owner_id", strconv.Itoa(c.ownerId))
	params.Set("post_id", strconv.FormatInt(postId, 10))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("count", "100")
	params.Set("extended", "1")
	params.Set("sort", "asc")

	metrics.VKRequestCounter.WithLabelValues("wall.getComments").Inc()
	resp, err := c.client.Get(c.baseURL + "/wall.getComments?" + params.Encode())
	if err != nil {
		return nil, nil, 0, err
	}
	defer resp.Body.Close()
	metrics.VKResponseCounter.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, 0, fmt.Errorf("vk api returned status %d", resp.StatusCode)
	}

	var body commentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, nil, 0, err
	}
	if body.Error != nil {
		return nil, nil, 0, fmt.Errorf("vk api error %d: %s", body.Error.ErrorCode, body.Error.ErrorMsg)
	}
	if body.Response == nil {
		return nil, nil, 0, fmt.Errorf("vk api returned an empty response")
	}
	return body.Response.Items, body.Response.Profiles, body.Response.Count, nil
}
