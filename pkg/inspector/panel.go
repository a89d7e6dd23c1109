//go:build formkit_inspect

package inspector

import (
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"
)

// historyLimit bounds how many snapshots the recorder retains.
const historyLimit = 50

// New returns the inspector for this build. Under the formkit_inspect
// build tag it records snapshots and can render them as an HTML panel.
func New() Inspector {
	return &recorder{}
}

type recorder struct {
	mu        sync.Mutex
	snapshots []Snapshot
}

func (r *recorder) Enabled() bool {
	return true
}

func (r *recorder) Record(snapshot Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snapshot)
	if len(r.snapshots) > historyLimit {
		r.snapshots = r.snapshots[len(r.snapshots)-historyLimit:]
	}
}

func (r *recorder) Snapshots() []Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Snapshot, len(r.snapshots))
	copy(out, r.snapshots)
	return out
}

func (r *recorder) Panel() string {
	snapshots := r.Snapshots()
	if len(snapshots) == 0 {
		return ""
	}

	var builder strings.Builder
	builder.WriteString(`<details class="formkit-inspector" open>`)
	builder.WriteString(`<summary>Form inspector (`)
	builder.WriteString(fmt.Sprintf("%d snapshots", len(snapshots)))
	builder.WriteString(`)</summary>`)

	latest := snapshots[len(snapshots)-1]
	builder.WriteString(`<dl>`)
	writeRow(&builder, "Form", latest.FormID)
	writeRow(&builder, "Submits", fmt.Sprintf("%d", latest.SubmitCount))
	writeRow(&builder, "Busy", fmt.Sprintf("%t", latest.Busy))
	if latest.GlobalError != "" {
		writeRow(&builder, "Banner", latest.GlobalError)
	}
	writeRow(&builder, "Touched", strings.Join(latest.Touched, ", "))
	writeRow(&builder, "Dirty", strings.Join(latest.Dirty, ", "))
	builder.WriteString(`</dl>`)

	if len(latest.Errors) > 0 {
		builder.WriteString(`<table class="formkit-inspector-errors"><thead><tr><th>Field</th><th>Error</th></tr></thead><tbody>`)
		paths := make([]string, 0, len(latest.Errors))
		for path := range latest.Errors {
			paths = append(paths, path)
		}
		sort.Strings(paths)
		for _, path := range paths {
			builder.WriteString(`<tr><td>`)
			builder.WriteString(html.EscapeString(path))
			builder.WriteString(`</td><td>`)
			builder.WriteString(html.EscapeString(latest.Errors[path]))
			builder.WriteString(`</td></tr>`)
		}
		builder.WriteString(`</tbody></table>`)
	}

	if payload, err := json.MarshalIndent(latest.Values, "", "  "); err == nil {
		builder.WriteString(`<pre class="formkit-inspector-values">`)
		builder.WriteString(html.EscapeString(string(payload)))
		builder.WriteString(`</pre>`)
	}

	builder.WriteString(`</details>`)
	return builder.String()
}

func writeRow(builder *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	builder.WriteString(`<dt>`)
	builder.WriteString(html.EscapeString(label))
	builder.WriteString(`</dt><dd>`)
	builder.WriteString(html.EscapeString(value))
	builder.WriteString(`</dd>`)
}
