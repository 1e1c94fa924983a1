package status

import (
	"bytes"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/moodvestor/report-relay/pkg/handlers/respond"
	"github.com/moodvestor/report-relay/pkg/models/api"
	"github.com/moodvestor/report-relay/pkg/services/config"
	"github.com/moodvestor/report-relay/pkg/store/archive"
	"github.com/rs/zerolog"
)

const recentReports = 10

var dashboardTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"pathEscape": url.PathEscape,
}).Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Moodvestor Webhook Receiver</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .status { padding: 10px; border-radius: 5px; margin: 10px 0; }
        .success { background: #d4edda; color: #155724; }
        .info { background: #d1ecf1; color: #0c5460; }
    </style>
</head>
<body>
    <h1>Moodvestor Webhook Receiver</h1>
    <div class="status success">Webhook receiver is running</div>
    <div class="status info">
        <h3>Configuration:</h3>
        <ul>
            <li>Slack Webhook: {{if .Slack}}Configured{{else}}Not configured{{end}}</li>
            <li>Discord Webhook: {{if .Discord}}Configured{{else}}Not configured{{end}}</li>
            <li>Backend URL: {{.BackendURL}}</li>
        </ul>
    </div>
    <h3>Endpoints:</h3>
    <ul>
        <li><code>POST /webhook/data-pipeline</code> - Receive data pipeline reports</li>
        <li><code>GET /health</code> - Health check</li>
        <li><code>GET /dashboard</code> - This page</li>
        <li><code>GET /api/v1/reports</code> - Archived reports</li>
    </ul>
    <h3>Recent Reports:</h3>
    {{- if .ListError}}
    <p>Archived reports are unavailable.</p>
    {{- else if .Reports}}
    <ul>
        {{- range .Reports}}
        <li><a href="/api/v1/reports/{{pathEscape .Name}}">{{.ReportID}}</a> - {{.ArchivedAt.Format "2006-01-02 15:04:05"}}</li>
        {{- end}}
    </ul>
    {{- else}}
    <p>No reports archived yet.</p>
    {{- end}}
</body>
</html>
`))

type dashboardView struct {
	Slack      bool
	Discord    bool
	BackendURL string
	Reports    []archive.Entry
	ListError  bool
}

type Handler struct {
	cfg      *config.Config
	archiver archive.Archiver
	now      func() time.Time
}

func NewHandler(cfg *config.Config, archiver archive.Archiver) *Handler {
	return &Handler{cfg: cfg, archiver: archiver, now: time.Now}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, api.Health{
		Status:    api.StatusHealthy,
		Timestamp: h.now().Format(time.RFC3339Nano),
	})
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	view := dashboardView{
		Slack:      h.cfg.SlackEnabled(),
		Discord:    h.cfg.DiscordEnabled(),
		BackendURL: h.cfg.BackendURL,
	}
	if h.archiver != nil {
		entries, err := h.archiver.List(ctx, recentReports)
		if err != nil {
			logger.Error().Err(err).Msg("failed to list archived reports")
			view.ListError = true
		}
		view.Reports = entries
	}

	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, view); err != nil {
		logger.Error().Err(err).Msg("failed to render dashboard")
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Error().Err(err).Msg("failed to write dashboard")
	}
}
