package blizzard

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// ErrCharacterNotFound signals that the requested character does not
// exist on the realm, as opposed to a transient API failure.
var ErrCharacterNotFound = errors.New("character not found")

// tokenExpiryBuffer refreshes a token slightly before its stated expiry.
const tokenExpiryBuffer = 60 * time.Second

// Credentials is the client id/secret pair for the battle.net API.
type Credentials struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// ParseCredentials decodes a credentials secret.
func ParseCredentials(raw string) (Credentials, error) {
	var c Credentials
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return Credentials{}, fmt.Errorf("blizzard: failed to parse credentials: %w", err)
	}
	if c.ClientID == "" || c.ClientSecret == "" {
		return Credentials{}, fmt.Errorf("blizzard: credentials missing clientId or clientSecret")
	}
	return c, nil
}

// EquippedItem is one equipped item slot on a character.
type EquippedItem struct {
	Slot    Named  `json:"slot"`
	Name    string `json:"name"`
	Quality Named  `json:"quality"`
}

type Named struct {
	Name string `json:"name"`
}

// CharacterEquipment is a character's equipped item list.
type CharacterEquipment struct {
	EquippedItems []EquippedItem `json:"equipped_items"`
}

// Client calls the battle.net OAuth and profile APIs. The access token
// is cached and reused until shortly before its stated expiry.
type Client struct {
	creds      func(ctx context.Context) (Credentials, error)
	oauthURL   string
	apiBaseURL string
	namespace  string
	http       *http.Client
	now        func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// Config configures a Client.
type Config struct {
	Credentials func(ctx context.Context) (Credentials, error)
	OAuthURL    string
	APIBaseURL  string
	Namespace   string
	HTTPClient  *http.Client
}

func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		creds:      cfg.Credentials,
		oauthURL:   cfg.OAuthURL,
		apiBaseURL: cfg.APIBaseURL,
		namespace:  cfg.Namespace,
		http:       hc,
		now:        time.Now,
	}
}

// WithClock overrides the token clock, for tests.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

// Token returns a valid access token, exchanging credentials only when
// the cached token is missing or about to expire.
func (c *Client) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	creds, err := c.creds(ctx)
	if err != nil {
		return "", fmt.Errorf("blizzard: failed to load credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.oauthURL,
		strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", fmt.Errorf("blizzard: failed to create token request: %w", err)
	}
	auth := base64.StdEncoding.EncodeToString([]byte(creds.ClientID + ":" + creds.ClientSecret))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("blizzard: token exchange failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("blizzard: token exchange status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("blizzard: failed to parse token response: %w", err)
	}

	c.token = body.AccessToken
	c.tokenExpiry = c.now().Add(time.Duration(body.ExpiresIn)*time.Second - tokenExpiryBuffer)
	return c.token, nil
}

// CharacterEquipment fetches a character's equipped items. A 404 from
// the profile API maps to ErrCharacterNotFound.
func (c *Client) CharacterEquipment(ctx context.Context, realmSlug, characterName string) (*CharacterEquipment, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/profile/wow/character/%s/%s/equipment?namespace=%s&locale=en_US",
		c.apiBaseURL,
		url.PathEscape(realmSlug),
		url.PathEscape(strings.ToLower(characterName)),
		url.QueryEscape(c.namespace))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("blizzard: failed to create equipment request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("blizzard: equipment fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("character %q on realm %q: %w", characterName, realmSlug, ErrCharacterNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("blizzard: equipment fetch status %d: %s", resp.StatusCode, b)
	}

	var equipment CharacterEquipment
	if err := json.NewDecoder(resp.Body).Decode(&equipment); err != nil {
		return nil, fmt.Errorf("blizzard: failed to parse equipment: %w", err)
	}
	return &equipment, nil
}
