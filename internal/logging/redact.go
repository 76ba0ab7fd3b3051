package logging

import (
	"fmt"
	"strings"
)

const redacted = "[REDACTED]"

var redactKeys = map[string]struct{}{
	"token":         {},
	"access_token":  {},
	"secret":        {},
	"code":          {},
	"authorization": {},
	"password":      {},
	"api_key":       {},
}

// redact replaces values whose key names a credential. Odd trailing values
// are passed through unchanged.
func redact(kv []any) []any {
	if len(kv) < 2 {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := strings.ToLower(strings.TrimSpace(fmt.Sprint(kv[i])))
		if _, ok := redactKeys[key]; ok {
			out = append(out, kv[i], redacted)
			continue
		}
		out = append(out, kv[i], kv[i+1])
	}
	return out
}
