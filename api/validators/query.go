package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/angelmondragon/storefront-admin/pkg/pagination"
)

// PageQuery reads page and per_page as sent. Unparseable values read as 0.
func PageQuery(r *http.Request) pagination.Params {
	q := r.URL.Query()
	page, _ := strconv.Atoi(strings.TrimSpace(q.Get("page")))
	perPage, _ := strconv.Atoi(strings.TrimSpace(q.Get("per_page")))
	return pagination.Params{Page: page, PerPage: perPage}
}

// ParseID parses a positive numeric path id.
func ParseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ParseBool accepts the form encodings 1/0, true/false, on/off and yes/no.
func ParseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true, true
	case "0", "false", "off", "no":
		return false, true
	}
	return false, false
}
