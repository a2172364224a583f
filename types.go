package main

// htmlTemplate is the station index page: one button per feed plus the
// admin links.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Family Radio Feeds</title>
  <style>
    body { font-family: sans-serif; text-align: center; padding-top: 4rem; }
    .button {
      display: inline-block; margin: 1rem; padding: 1rem 2rem;
      font-size: 1.25rem; background-color: #0077cc; color: white;
      text-decoration: none; border-radius: 0.5rem;
    }
    .button:hover { background-color: #005fa3; }
    .admin-button { background-color: #444; }
    .admin-button:hover { background-color: #222; }
  </style>
</head>
<body>
  <h1>Family Radio JSON Feeds</h1>
  <a class="button" href="/east-feed.json" target="_blank">East Feed (WFME)</a>
  <a class="button" href="/west-feed.json" target="_blank">West Feed (KEAR)</a>
  <a class="button" href="/worship-feed.json" target="_blank">Worship Feed</a>
  <br><br>
  <a class="button admin-button" href="/admin/dashboard" target="_blank">Admin Dashboard</a>
  <form action="/admin/test-alert" method="get" target="_blank" style="margin-top: 2rem;">
    <button class="button admin-button">Send Test Alert</button>
  </form>
</body>
</html>`

// feedMetrics is one feed's block in the dashboard response.
type feedMetrics struct {
	Feed   string           `json:"feed"`
	Total  map[string]int64 `json:"total"`
	Unique map[string]int64 `json:"unique"`
}
