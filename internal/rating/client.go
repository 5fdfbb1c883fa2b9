// Package rating looks up members' ranked tiers from the Riot API and keeps
// stored tiers current.
package rating

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scrimnight/scrimnight/internal/member"
)

// SoloQueue is the queue whose tier counts for balancing.
const SoloQueue = "RANKED_SOLO_5x5"

const maxResponseBytes = 1 << 20

// ErrAccountNotFound is returned when no account matches a Riot ID.
var ErrAccountNotFound = errors.New("riot account not found")

// ErrInvalidHandle is returned for handles not in "gameName#tagLine" form.
var ErrInvalidHandle = errors.New("handle must be in gameName#tagLine form")

// StatusError is returned for non-2xx responses other than 404 account lookups.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("riot api returned status %d: %s", e.StatusCode, e.Body)
}

// Account is a Riot account.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Handle returns the account's "gameName#tagLine".
func (a Account) Handle() string {
	return a.GameName + "#" + a.TagLine
}

// Profile is the result of a full lookup by handle.
type Profile struct {
	Account Account
	Tier    *member.Tier // nil when unranked in solo queue
}

type leagueEntry struct {
	QueueType string `json:"queueType"`
	Tier      string `json:"tier"`
	Rank      string `json:"rank"`
}

// Client calls the Riot account and league endpoints.
type Client struct {
	apiKey         string
	accountBaseURL string
	leagueBaseURL  string
	httpClient     *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a Client. Account lookups go to accountBaseURL (a
// regional host) and league lookups to leagueBaseURL (a platform host).
func NewClient(apiKey, accountBaseURL, leagueBaseURL string, opts ...ClientOption) *Client {
	c := &Client{
		apiKey:         apiKey,
		accountBaseURL: strings.TrimRight(accountBaseURL, "/"),
		leagueBaseURL:  strings.TrimRight(leagueBaseURL, "/"),
		httpClient:     &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SplitHandle splits "gameName#tagLine" at the last '#'.
func SplitHandle(handle string) (gameName, tagLine string, err error) {
	i := strings.LastIndex(handle, "#")
	if i <= 0 || i == len(handle)-1 {
		return "", "", ErrInvalidHandle
	}
	return strings.TrimSpace(handle[:i]), strings.TrimSpace(handle[i+1:]), nil
}

// Lookup resolves a handle to its account and solo-queue tier.
func (c *Client) Lookup(ctx context.Context, handle string) (*Profile, error) {
	gameName, tagLine, err := SplitHandle(handle)
	if err != nil {
		return nil, err
	}

	account, err := c.AccountByRiotID(ctx, gameName, tagLine)
	if err != nil {
		return nil, err
	}

	tier, err := c.SoloTier(ctx, account.PUUID)
	if err != nil {
		return nil, err
	}

	return &Profile{Account: *account, Tier: tier}, nil
}

// AccountByRiotID returns the account for gameName#tagLine.
func (c *Client) AccountByRiotID(ctx context.Context, gameName, tagLine string) (*Account, error) {
	reqURL := c.accountBaseURL + "/riot/account/v1/accounts/by-riot-id/" +
		url.PathEscape(gameName) + "/" + url.PathEscape(tagLine)

	var account Account
	if err := c.getJSON(ctx, reqURL, &account); err != nil {
		var se *StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("looking up account %s#%s: %w", gameName, tagLine, err)
	}
	return &account, nil
}

// SoloTier returns the solo-queue tier for puuid, or nil when the player
// has no solo-queue entry. Tiers the service does not know are reported as
// unranked.
func (c *Client) SoloTier(ctx context.Context, puuid string) (*member.Tier, error) {
	reqURL := c.leagueBaseURL + "/lol/league/v4/entries/by-puuid/" + url.PathEscape(puuid)

	var entries []leagueEntry
	if err := c.getJSON(ctx, reqURL, &entries); err != nil {
		return nil, fmt.Errorf("looking up league entries: %w", err)
	}

	for _, e := range entries {
		if e.QueueType != SoloQueue {
			continue
		}
		tier, err := member.ParseTier(e.Tier)
		if err != nil {
			slog.Warn("ignoring unknown tier from riot api", "tier", e.Tier)
			return nil, nil
		}
		return &tier, nil
	}
	return nil, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		slog.Error("riot api request failed", "status", resp.StatusCode, "url", reqURL)
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
