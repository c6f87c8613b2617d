package domain

import (
	"net/url"
	"strconv"
)

// Page identifies one of the three enforcement destination views.
type Page string

const (
	// PageBlocked renders a hard block with the rule's reminder message.
	PageBlocked Page = "blocked"
	// PageDelayed renders a countdown before the target becomes reachable.
	PageDelayed Page = "delayed"
	// PageConditional renders the outstanding focus requirement.
	PageConditional Page = "conditional"
)

// RedirectSpec carries everything an enforcement page needs to render:
// which page, the blocked target, the human message, and the page-specific
// numeric parameter (countdown seconds or focus minutes).
type RedirectSpec struct {
	Page    Page
	Target  string
	Message string
	// Seconds is the remaining countdown; set only for PageDelayed.
	Seconds int
	// Minutes is the outstanding focus time; set only for PageConditional.
	Minutes int
}

// URL renders the redirect destination with the page parameters encoded as
// query parameters, relative to the extension's page root.
func (r RedirectSpec) URL() string {
	q := url.Values{}
	q.Set("url", r.Target)
	if r.Message != "" {
		q.Set("message", r.Message)
	}
	switch r.Page {
	case PageDelayed:
		q.Set("seconds", strconv.Itoa(r.Seconds))
	case PageConditional:
		q.Set("minutes", strconv.Itoa(r.Minutes))
	}
	return "/" + string(r.Page) + ".html?" + q.Encode()
}
