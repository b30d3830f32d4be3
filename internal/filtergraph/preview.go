package filtergraph

import "strings"

// CommandLine renders the invocation as a single shell-quoted line for
// display. It is not used to execute anything.
func (inv Invocation) CommandLine(binary string) string {
	parts := make([]string, 0, len(inv.Args)+1)
	parts = append(parts, shellQuote(binary))
	for _, arg := range inv.Args {
		parts = append(parts, shellQuote(arg))
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	safe := true
	for _, r := range s {
		if !isShellSafe(r) {
			safe = false
			break
		}
	}
	if safe {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func isShellSafe(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return strings.ContainsRune("-_./:=,+@%", r)
}
