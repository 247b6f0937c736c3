package server

import (
	"html/template"
	"net/http"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #141414; }
        .container { text-align: center; background: #1f1f1f; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.4); }
        h1 { color: {{.Color}}; margin: 0 0 1rem 0; }
        p { color: #bbb; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>{{.Title}}</h1>
        <p>{{.Message}}</p>
    </div>
</body>
</html>
`))

type page struct {
	Title   string
	Message string
	Color   template.CSS
}

var (
	successPage = page{"Signed in", "You can close this window and return to the terminal.", "#e50914"}
	failurePage = page{"Sign-in failed", "Return to the terminal for details.", "#f5c518"}
)

func writePage(w http.ResponseWriter, status int, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	pageTemplate.Execute(w, p)
}
