package gist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/SunnySoftwareTech/Drafty/models"
	"github.com/SunnySoftwareTech/Drafty/remote"
)

const (
	Description = "Drafty App Data (Auto-sync)"
	Filename    = "drafty-data.json"

	DefaultBaseURL = "https://api.github.com"
	apiVersion     = "2022-11-28"
	pageSize       = 100
	maxErrorBody   = 512
)

type Options struct {
	BaseURL string
	Timeout time.Duration
	// Limiter paces every request made by clients of one provider.
	Limiter *rate.Limiter
	// Transport is the base round tripper under the bearer-token transport.
	Transport http.RoundTripper
	Logger    *log.Logger
}

// GistProvider hands out per-token clients that share a rate limiter.
type GistProvider struct {
	baseURL   string
	timeout   time.Duration
	limiter   *rate.Limiter
	transport http.RoundTripper
	logger    *log.Logger
}

func NewProvider(opts Options) *GistProvider {
	p := &GistProvider{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		timeout:   opts.Timeout,
		limiter:   opts.Limiter,
		transport: opts.Transport,
		logger:    opts.Logger,
	}
	if p.baseURL == "" {
		p.baseURL = DefaultBaseURL
	}
	if p.timeout <= 0 {
		p.timeout = 15 * time.Second
	}
	if p.limiter == nil {
		p.limiter = rate.NewLimiter(rate.Every(250*time.Millisecond), 4)
	}
	if p.transport == nil {
		p.transport = http.DefaultTransport
	}
	if p.logger == nil {
		p.logger = log.New(os.Stderr, "[gist] ", log.LstdFlags)
	}
	return p
}

func (p *GistProvider) httpClient(token string) *http.Client {
	return &http.Client{
		Timeout: p.timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			Base:   p.transport,
		},
	}
}

func (p *GistProvider) NewClient(token string) remote.SnapshotClient {
	return p.newClient(token)
}

func (p *GistProvider) newClient(token string) *Client {
	return &Client{
		baseURL: p.baseURL,
		http:    p.httpClient(token),
		limiter: p.limiter,
		logger:  p.logger,
	}
}

// TestToken calls GET /user with the candidate token.
func (p *GistProvider) TestToken(ctx context.Context, token string) (bool, error) {
	c := p.newClient(token)
	resp, err := c.do(ctx, "test token", http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, nil
	default:
		return false, &remote.Error{Op: "test token", StatusCode: resp.StatusCode}
	}
}

// Client resolves and caches the id of the user's snapshot gist. Only a found
// id is cached; a miss is looked up again on the next call.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	logger  *log.Logger

	mu     sync.Mutex
	gistId string
}

type gistFile struct {
	Content   string `json:"content"`
	Truncated bool   `json:"truncated,omitempty"`
	RawURL    string `json:"raw_url,omitempty"`
}

type gist struct {
	Id          string              `json:"id"`
	Description string              `json:"description"`
	Public      bool                `json:"public"`
	Files       map[string]gistFile `json:"files"`
}

type writeFile struct {
	Content string `json:"content"`
}

type writeRequest struct {
	Description string               `json:"description,omitempty"`
	Public      *bool                `json:"public,omitempty"`
	Files       map[string]writeFile `json:"files"`
}

func (c *Client) cachedId() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gistId
}

func (c *Client) setCachedId(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gistId = id
}

func (c *Client) forget(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gistId == id {
		c.gistId = ""
	}
}

func (c *Client) do(ctx context.Context, op, method, target string, body any) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, remote.ErrUnavailable, err)
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, remote.ErrUnavailable, err)
	}
	return resp, nil
}

// expect checks the status and decodes a JSON body into out when out is non-nil.
func expect(op string, resp *http.Response, want int, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode != want {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &remote.Error{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(msg)}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(body))
}

func encodeSnapshot(snap models.Snapshot) (string, error) {
	snap.Normalize()
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return string(b), nil
}

// Discover pages through the user's gists looking for the one whose
// description matches exactly. The first match wins.
func (c *Client) Discover(ctx context.Context) (string, bool, error) {
	if id := c.cachedId(); id != "" {
		return id, true, nil
	}

	var matches []string
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("per_page", fmt.Sprint(pageSize))
		q.Set("page", fmt.Sprint(page))

		resp, err := c.do(ctx, "list gists", http.MethodGet, c.baseURL+"/gists?"+q.Encode(), nil)
		if err != nil {
			return "", false, err
		}
		var gists []gist
		if err := expect("list gists", resp, http.StatusOK, &gists); err != nil {
			return "", false, err
		}

		for _, g := range gists {
			if g.Description == Description {
				matches = append(matches, g.Id)
			}
		}
		if len(gists) < pageSize {
			break
		}
	}

	if len(matches) == 0 {
		return "", false, nil
	}
	if len(matches) > 1 {
		c.logger.Printf("WARNING: %d gists named %q, using %s", len(matches), Description, matches[0])
	}

	c.setCachedId(matches[0])
	return matches[0], true, nil
}

func (c *Client) Create(ctx context.Context, snap models.Snapshot) (string, error) {
	content, err := encodeSnapshot(snap)
	if err != nil {
		return "", err
	}

	public := false
	resp, err := c.do(ctx, "create gist", http.MethodPost, c.baseURL+"/gists", writeRequest{
		Description: Description,
		Public:      &public,
		Files:       map[string]writeFile{Filename: {Content: content}},
	})
	if err != nil {
		return "", err
	}

	var created gist
	if err := expect("create gist", resp, http.StatusCreated, &created); err != nil {
		return "", err
	}
	if created.Id == "" {
		return "", fmt.Errorf("create gist: response without id")
	}

	c.setCachedId(created.Id)
	return created.Id, nil
}

func (c *Client) Update(ctx context.Context, id string, snap models.Snapshot) error {
	content, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	resp, err := c.do(ctx, "update gist", http.MethodPatch, c.baseURL+"/gists/"+url.PathEscape(id), writeRequest{
		Files: map[string]writeFile{Filename: {Content: content}},
	})
	if err != nil {
		return err
	}
	if err := expect("update gist", resp, http.StatusOK, nil); err != nil {
		if remote.StatusCode(err) == http.StatusNotFound {
			c.forget(id)
		}
		return err
	}
	return nil
}

func (c *Client) Fetch(ctx context.Context, id string) (*models.Snapshot, error) {
	resp, err := c.do(ctx, "fetch gist", http.MethodGet, c.baseURL+"/gists/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	var g gist
	if err := expect("fetch gist", resp, http.StatusOK, &g); err != nil {
		if remote.StatusCode(err) == http.StatusNotFound {
			c.forget(id)
		}
		return nil, err
	}

	file, ok := g.Files[Filename]
	if !ok {
		return nil, nil
	}

	content := file.Content
	if file.Truncated && file.RawURL != "" {
		content, err = c.fetchRaw(ctx, file.RawURL)
		if err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	var snap models.Snapshot
	if err := json.Unmarshal([]byte(content), &snap); err != nil {
		return nil, fmt.Errorf("fetch gist: decode %s: %w", Filename, err)
	}
	return &snap, nil
}

// fetchRaw reads a file the API truncated.
func (c *Client) fetchRaw(ctx context.Context, rawURL string) (string, error) {
	resp, err := c.do(ctx, "fetch raw file", http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &remote.Error{Op: "fetch raw file", StatusCode: resp.StatusCode}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch raw file: %w: %w", remote.ErrUnavailable, err)
	}
	return string(b), nil
}
