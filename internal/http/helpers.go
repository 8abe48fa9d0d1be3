package http

import (
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
)

const maxNameLength = 100

// sanitizeInput trims, strips control characters and caps the length of a
// user-supplied name before it reaches the ledger.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
	if len(s) > maxNameLength {
		s = s[:maxNameLength]
	}
	return s
}

// redirectHome sends the post/redirect/get hop back to the dashboard.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// renderFormError answers an invalid form submission with a small page
// linking back to the dashboard.
func renderFormError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	fmt.Fprintf(w, `<!doctype html><html lang="ro"><body><p class="error">%s</p><p><a href="/">Înapoi</a></p></body></html>`,
		html.EscapeString(msg))
}

// dayFromDateISO extracts the day component of a YYYY-MM-DD date, or 1 when
// the string is malformed.
func dayFromDateISO(dateISO string) int {
	if len(dateISO) != 10 {
		return 1
	}
	day, err := strconv.Atoi(dateISO[8:])
	if err != nil || day < 1 {
		return 1
	}
	return day
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}
