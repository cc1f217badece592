package utils

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
)

var phoneDigitsRegex = regexp.MustCompile(`[^0-9+]`)

func StrPtr(s string) *string {
	return &s
}

func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func ToUint(id string) (uint, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	return uint(n), err
}

// NormalizePhoneRW strips separators and rewrites a Rwandan mobile
// number into international form (2507XXXXXXXX).
func NormalizePhoneRW(phone string) string {
	p := phoneDigitsRegex.ReplaceAllString(phone, "")
	switch {
	case len(p) > 0 && p[0] == '+':
		return p[1:]
	case len(p) >= 2 && p[:2] == "07":
		return "250" + p[1:]
	default:
		return p
	}
}

func WriteJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
