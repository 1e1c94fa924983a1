package notify

import (
	"context"
	"strings"
	"time"

	"github.com/moodvestor/report-relay/pkg/models/domain"
)

const maxSlackRecommendations = 3

var slackColors = map[string]string{
	domain.StatusSuccess: "good",
	domain.StatusWarning: "warning",
	domain.StatusError:   "danger",
}

type SlackMessage struct {
	Attachments []SlackAttachment `json:"attachments"`
}

type SlackAttachment struct {
	Color  string       `json:"color"`
	Title  string       `json:"title"`
	Fields []SlackField `json:"fields"`
	Footer string       `json:"footer"`
	Ts     int64        `json:"ts"`
}

type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

func SlackColor(status string) string {
	if c, ok := slackColors[status]; ok {
		return c
	}
	return slackColors[domain.StatusSuccess]
}

func FormatSlack(d domain.Digest, now time.Time) SlackMessage {
	var fields []SlackField
	for _, f := range d.Fields() {
		fields = append(fields, SlackField{Title: f.Name, Value: f.Value, Short: f.Short})
	}
	if recs := d.TopRecommendations(maxSlackRecommendations); len(recs) > 0 {
		fields = append(fields, SlackField{
			Title: "Recommendations",
			Value: strings.Join(recs, "\n"),
			Short: false,
		})
	}

	return SlackMessage{
		Attachments: []SlackAttachment{{
			Color:  SlackColor(d.Status),
			Title:  title(d),
			Fields: fields,
			Footer: footer,
			Ts:     now.Unix(),
		}},
	}
}

type Slack struct {
	poster
	now func() time.Time
}

func NewSlack(url string, timeout time.Duration) *Slack {
	return &Slack{poster: newPoster(url, timeout), now: time.Now}
}

func (s *Slack) Name() string {
	return "slack"
}

func (s *Slack) Notify(ctx context.Context, d domain.Digest) error {
	return s.post(ctx, FormatSlack(d, s.now()))
}
