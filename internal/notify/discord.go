package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/donaldgifford/sale-tracker/internal/metrics"
	domain "github.com/donaldgifford/sale-tracker/pkg/types"
)

const defaultDiscordAPIURL = "https://discord.com/api/v10"

// DiscordChannel implements Channel through the Discord bot REST API.
type DiscordChannel struct {
	apiURL string
	token  string
	client *http.Client
}

// DiscordOption configures a DiscordChannel.
type DiscordOption func(*DiscordChannel)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordChannel) {
		d.client = c
	}
}

// WithAPIURL overrides the Discord API base URL.
func WithAPIURL(u string) DiscordOption {
	return func(d *DiscordChannel) {
		d.apiURL = strings.TrimRight(u, "/")
	}
}

// NewDiscordChannel creates a DiscordChannel authenticated with a bot token.
func NewDiscordChannel(token string, opts ...DiscordOption) *DiscordChannel {
	d := &DiscordChannel{
		apiURL: defaultDiscordAPIURL,
		token:  token,
		client: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type discordMessagePayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordRateLimit struct {
	RetryAfter float64 `json:"retry_after"`
}

func buildEmbed(msg Message) discordEmbed {
	embed := discordEmbed{
		Title:       msg.Title,
		URL:         msg.URL,
		Color:       msg.Color,
		Description: strings.Join(msg.Lines, "\n"),
		Fields: []discordEmbedField{
			{Name: "Price", Value: msg.Price, Inline: true},
		},
	}
	if msg.Discount > 0 {
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name: "Discount", Value: fmt.Sprintf("-%d%%", msg.Discount), Inline: true,
		})
	}
	return embed
}

// Send posts msg as a single embed to the destination's channel.
func (d *DiscordChannel) Send(ctx context.Context, dest domain.Destination, msg Message) error {
	body, err := json.Marshal(discordMessagePayload{Embeds: []discordEmbed{buildEmbed(msg)}})
	if err != nil {
		return &DeliveryError{Kind: Unreachable, Destination: dest, Err: fmt.Errorf("marshaling discord payload: %w", err)}
	}

	endpoint := d.apiURL + "/channels/" + dest.ChannelID + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return &DeliveryError{Kind: Unreachable, Destination: dest, Err: fmt.Errorf("creating discord request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bot "+d.token)

	start := time.Now()
	resp, err := d.client.Do(req)
	metrics.NotificationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return &DeliveryError{Kind: Transient, Destination: dest, Err: fmt.Errorf("sending discord message: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	derr := &DeliveryError{
		Destination: dest,
		Status:      resp.StatusCode,
		Err:         fmt.Errorf("discord returned %d: %s", resp.StatusCode, bytes.TrimSpace(respBody)),
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		derr.Kind = Transient
		derr.Wait = discordRetryAfter(resp.Header, respBody)
		derr.Err = errors.New("discord rate limited (429)")
	case resp.StatusCode >= 500:
		derr.Kind = Transient
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		derr.Kind = Forbidden
	default:
		derr.Kind = Unreachable
	}
	return derr
}

// discordRetryAfter prefers the Retry-After header and falls back to the
// retry_after body field. Both are seconds.
func discordRetryAfter(h http.Header, body []byte) time.Duration {
	if v := h.Get("Retry-After"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil && secs > 0 {
			return time.Duration(secs * float64(time.Second))
		}
	}
	var rl discordRateLimit
	if err := json.Unmarshal(body, &rl); err == nil && rl.RetryAfter > 0 {
		return time.Duration(rl.RetryAfter * float64(time.Second))
	}
	return 0
}
