package discord

import "strings"

// chunkLines splits s into pieces of at most limit bytes, breaking after the
// last newline that fits. A line longer than limit is cut hard.
func chunkLines(s string, limit int) []string {
	var out []string
	for len(s) > limit {
		cut := strings.LastIndex(s[:limit], "\n")
		if cut == -1 {
			out = append(out, s[:limit])
			s = s[limit:]
			continue
		}
		out = append(out, s[:cut+1])
		s = s[cut+1:]
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
