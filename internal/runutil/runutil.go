// internal/runutil/runutil.go
package runutil

import (
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveThreads maps the --threads convention (0 = all CPUs) to a count.
func ResolveThreads(threads int) int {
	if threads <= 0 {
		return runtime.NumCPU()
	}
	return threads
}

// SanitizeFileName keeps letters, digits, '-', '_' and '.', replacing runs of
// anything else with a single '_'. An empty result becomes "template".
func SanitizeFileName(name string) string {
	var b strings.Builder
	under := false
	for _, r := range name {
		ok := r == '-' || r == '_' || r == '.' ||
			(r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if ok {
			b.WriteRune(r)
			under = false
			continue
		}
		if !under {
			b.WriteByte('_')
			under = true
		}
	}
	s := strings.Trim(b.String(), "_.")
	if s == "" {
		return "template"
	}
	return s
}

// AutoSavePath is where a finished run is saved inside dir:
// <sanitized template name>_<id>.json.
func AutoSavePath(dir, templateName, id string) string {
	return filepath.Join(dir, SanitizeFileName(templateName)+"_"+id+".json")
}
