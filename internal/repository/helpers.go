package repository

import "strings"

// likePattern builds a case-insensitive substring pattern; callers compare against LOWER(column).
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}

func toLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
