// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	driveIDPattern   = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)|id=([a-zA-Z0-9_-]+)`)
	youtubeIDPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]+)`)
)

// displayDate humanizes a timestamp for list and create responses.
func displayDate(t time.Time, now time.Time) string {
	if t.IsZero() {
		return "Recent"
	}

	days := int(now.Sub(t).Hours() / 24)
	switch {
	case days < 0:
		return t.Format("02 Jan 2006")
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		weeks := days / 7
		if weeks == 1 {
			return "1 week ago"
		}
		return fmt.Sprintf("%d weeks ago", weeks)
	default:
		return t.Format("02 Jan 2006")
	}
}

// embeddableURL rewrites externally hosted media links into a form the
// frontend can embed directly: Google Drive links go through the local
// drive proxy, YouTube links become embed URLs. Local upload URLs and
// anything unrecognized pass through unchanged.
func embeddableURL(url string) string {
	if url == "" || strings.HasPrefix(url, "/uploads/") {
		return url
	}

	if strings.Contains(url, "drive.google.com") {
		if m := driveIDPattern.FindStringSubmatch(url); m != nil {
			id := m[1]
			if id == "" {
				id = m[2]
			}
			return "/api/drive-proxy/" + id
		}
	}

	if strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be") {
		if m := youtubeIDPattern.FindStringSubmatch(url); m != nil {
			return "https://www.youtube.com/embed/" + m[1]
		}
	}

	return url
}
