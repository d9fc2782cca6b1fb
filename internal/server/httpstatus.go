// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package server

import (
	"html/template"
	"net/http"

	"github.com/golang/glog"
)

const statusTemplate = `
<!DOCTYPE html>
<html>
<head>
<title>jackc on {{.BindAddress}}</title>
</head>
<body>
<h1>jackc on {{.BindAddress}}</h1>
<p>Build: {{.BuildInfo}}</p>
<p>Metrics: <a href="/metrics">prometheus</a></p>
<p>Info: <a href="/tracez">tracez</a>, <a href="/rpcz">rpcz</a></p>
<p>Debug: {{ if .HTTPDebugEndpoints }}<a href="/debug/pprof">debug/pprof</a>, <a href="/debug/vars">debug/vars</a>{{ else }} disabled {{ end }}</p>
`

const statusTemplateEnd = `
</body>
</html>
`

var (
	statusPage    = template.Must(template.New("status").Parse(statusTemplate))
	statusPageEnd = template.Must(template.New("statusend").Parse(statusTemplateEnd))
)

// ServeHTTP satisfies the http.Handler interface, and is used to serve the
// root page of jackc for online status reporting.
func (m *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data := struct {
		BindAddress        string
		BuildInfo          string
		HTTPDebugEndpoints bool
	}{
		m.Addr(),
		m.buildInfo.String(),
		m.httpDebugEndpoints,
	}
	w.Header().Add("Content-type", "text/html")
	w.WriteHeader(http.StatusOK)
	if err := statusPage.Execute(w, data); err != nil {
		glog.Warningf("Error while writing status: %s", err)
		return
	}
	if err := m.l.WriteStatusHTML(w); err != nil {
		glog.Warningf("Error while writing loader status: %s", err)
	}
	if err := statusPageEnd.Execute(w, data); err != nil {
		glog.Warningf("Error while writing status: %s", err)
	}
}
