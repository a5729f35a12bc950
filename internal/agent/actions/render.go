package actions

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Entry is the title/description pair most listing actions return.
type Entry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (e Entry) String() string {
	return e.Title + ": " + e.Description
}

// Render turns an action result into the single string appended to the
// conversation. Sequences of entries become one "title: description" line per
// item in input order; anything without a textual form is JSON encoded, which
// sorts map keys and so stays deterministic.
func Render(result any) string {
	switch v := result.(type) {
	case nil:
		return ""
	case string:
		return v
	case []Entry:
		lines := make([]string, 0, len(v))
		for _, e := range v {
			lines = append(lines, e.String())
		}
		return strings.Join(lines, "\n")
	case []map[string]any:
		lines := make([]string, 0, len(v))
		for _, m := range v {
			lines = append(lines, fmt.Sprintf("%v: %v", m["title"], m["description"]))
		}
		return strings.Join(lines, "\n")
	case fmt.Stringer:
		return v.String()
	case error:
		return v.Error()
	}

	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprint(result)
	}
	return string(b)
}
