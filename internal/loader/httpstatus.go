// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package loader

import (
	"html/template"
	"io"
	"path/filepath"
)

const loaderTemplate = `
<h2 id="loader">Source Loader</h2>
<table border="1">
<tr>
<th>source</th>
<th>output</th>
<th>errors</th>
<th>compile errors</th>
<th>compile successes</th>
<th>cache hits</th>
</tr>
{{range $s := .Sources}}
<tr>
<td>{{$s.Path}}</td>
<td>{{$s.Output}}</td>
<td>
{{if $s.Err}}
<pre>{{$s.Err}}</pre>
{{else}}
No compile errors
{{end}}
</td>
<td>{{$s.LoadErrors}}</td>
<td>{{$s.Loads}}</td>
<td>{{$s.CacheHits}}</td>
</tr>
{{end}}
</table>
`

var statusTemplate = template.Must(template.New("loader").Parse(loaderTemplate))

type sourceStatus struct {
	Path       string
	Output     string
	Err        error
	LoadErrors string
	Loads      string
	CacheHits  string
}

// WriteStatusHTML writes the current state of the loader as HTML to the given writer w.
func (l *Loader) WriteStatusHTML(w io.Writer) error {
	paths, errs := l.Errors()
	data := struct {
		Sources []sourceStatus
	}{}
	for i, p := range paths {
		name := filepath.Base(p)
		s := sourceStatus{Path: p, Output: l.OutputPath(p), Err: errs[i]}
		if v := ProgLoadErrors.Get(name); v != nil {
			s.LoadErrors = v.String()
		}
		if v := ProgLoads.Get(name); v != nil {
			s.Loads = v.String()
		}
		if v := ProgCacheHits.Get(name); v != nil {
			s.CacheHits = v.String()
		}
		data.Sources = append(data.Sources, s)
	}
	return statusTemplate.Execute(w, data)
}
