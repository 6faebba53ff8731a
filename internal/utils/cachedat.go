package utils

import (
	"time"
)

const cachedAtLayout = "2006-01-02 15:04"

// FormatCachedAt renders a cache stamp in local time. Nil and zero stamps render empty.
func FormatCachedAt(stamp *time.Time) string {
	if stamp == nil || stamp.IsZero() {
		return ""
	}
	return stamp.Local().Format(cachedAtLayout)
}
