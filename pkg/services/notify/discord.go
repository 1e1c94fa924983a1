package notify

import (
	"context"
	"time"

	"github.com/moodvestor/report-relay/pkg/models/domain"
)

const (
	discordGreen  = 0x28a745
	discordYellow = 0xffc107
	discordRed    = 0xdc3545
)

var discordColors = map[string]int{
	domain.StatusSuccess: discordGreen,
	domain.StatusWarning: discordYellow,
	domain.StatusError:   discordRed,
}

type DiscordMessage struct {
	Embeds []DiscordEmbed `json:"embeds"`
}

type DiscordEmbed struct {
	Title     string         `json:"title"`
	Color     int            `json:"color"`
	Fields    []DiscordField `json:"fields"`
	Footer    DiscordFooter  `json:"footer"`
	Timestamp string         `json:"timestamp"`
}

type DiscordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type DiscordFooter struct {
	Text string `json:"text"`
}

func DiscordColor(status string) int {
	if c, ok := discordColors[status]; ok {
		return c
	}
	return discordGreen
}

// FormatDiscord builds the embed. Unlike Slack it never carries recommendations.
func FormatDiscord(d domain.Digest, now time.Time) DiscordMessage {
	var fields []DiscordField
	for _, f := range d.Fields() {
		fields = append(fields, DiscordField{Name: f.Name, Value: f.Value, Inline: f.Short})
	}

	return DiscordMessage{
		Embeds: []DiscordEmbed{{
			Title:     title(d),
			Color:     DiscordColor(d.Status),
			Fields:    fields,
			Footer:    DiscordFooter{Text: footer},
			Timestamp: now.Format(time.RFC3339),
		}},
	}
}

type Discord struct {
	poster
	now func() time.Time
}

func NewDiscord(url string, timeout time.Duration) *Discord {
	return &Discord{poster: newPoster(url, timeout), now: time.Now}
}

func (d *Discord) Name() string {
	return "discord"
}

func (d *Discord) Notify(ctx context.Context, digest domain.Digest) error {
	return d.post(ctx, FormatDiscord(digest, d.now()))
}
