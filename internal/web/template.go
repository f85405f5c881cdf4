package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"sort"
	"time"

	"github.com/sweeney/pi-lights/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>pi-lights: {{.Device}}</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.red { color: #c00; font-weight: bold; }
.green { color: green; font-weight: bold; }
.yellow { color: #c90; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>pi-lights: {{.Device}}</h1>

<h2>State</h2>
<table>
<tr><th>State</th><td id="state" class="{{.Label}}">{{.State}} ({{.Label}})</td></tr>
<tr><th>Last change</th><td>{{if .LastChange.IsZero}}never{{else}}{{.LastChange.UTC.Format "2006-01-02T15:04:05Z"}}{{end}}</td></tr>
<tr><th>Presses accepted</th><td>{{.Counts.Accepted}}</td></tr>
<tr><th>Presses ignored</th><td>{{.Counts.Ignored}}</td></tr>
</table>

<h2>Pins</h2>
<table>
{{range .Pins}}<tr><th>{{.Name}}</th><td>GPIO{{.Pin}}</td></tr>
{{end}}</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceMs}}ms (line {{.Config.BounceMs}}ms)</td></tr>
<tr><th>MQTT</th><td>{{if .Config.Broker}}<span class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</span> {{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

type pinRow struct {
	Name string
	Pin  int
}

func renderHTML(w io.Writer, snap status.Snapshot) error {
	pins := make([]pinRow, 0, len(snap.Config.Pins))
	for name, pin := range snap.Config.Pins {
		pins = append(pins, pinRow{Name: name, Pin: pin})
	}
	sort.Slice(pins, func(i, j int) bool { return pins[i].Name < pins[j].Name })

	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
		Pins   []pinRow
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Pins:     pins,
	}

	// Render to a buffer so a template error does not leave a partial page.
	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
