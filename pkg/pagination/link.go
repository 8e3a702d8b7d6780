package pagination

import (
	"net/url"
	"strconv"
	"strings"
)

// ParseLinks parses a Link header of the form
//
//	<url>; rel="next", <url>; rel="last"
//
// into a map of relation name to URL. Malformed segments are skipped; an
// empty or unparseable header yields an empty map.
func ParseLinks(header string) map[string]string {
	links := map[string]string{}
	for _, segment := range strings.Split(header, ",") {
		parts := strings.Split(strings.TrimSpace(segment), ";")
		if len(parts) < 2 {
			continue
		}
		target := strings.TrimSpace(parts[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		target = strings.Trim(target, "<>")

		for _, param := range parts[1:] {
			param = strings.TrimSpace(param)
			if !strings.HasPrefix(param, "rel=") {
				continue
			}
			rel := strings.Trim(strings.TrimPrefix(param, "rel="), `"`)
			if rel != "" {
				links[rel] = target
			}
		}
	}
	return links
}

// PageLinks parses a Link header into a map of relation name to the page
// number carried in that URL's "page" query parameter. Relations whose
// URL has no usable page number are dropped; empty or malformed headers
// yield an empty map.
func PageLinks(header string) map[string]int {
	pages := map[string]int{}
	for rel, target := range ParseLinks(header) {
		u, err := url.Parse(target)
		if err != nil {
			continue
		}
		page, err := strconv.Atoi(u.Query().Get("page"))
		if err != nil || page < 1 {
			continue
		}
		pages[rel] = page
	}
	return pages
}
