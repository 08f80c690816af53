package sync

import (
	"strings"

	"github.com/syncops/notion-github-sync/internal/notion"
	"github.com/syncops/notion-github-sync/pkg/types"
)

// Validate decides whether a record carries enough data to sync. Title and
// status are required; priority and size only produce a warning. The
// message enumerates whatever is missing, or reads "OK" for a fully
// populated record. A warning result is still eligible.
func Validate(rec *types.Record) (bool, string) {
	var missing []string
	if rec.Title == "" || rec.Title == notion.NoTitle {
		missing = append(missing, "title")
	}
	if rec.Status == "" {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return false, "Missing required fields: " + strings.Join(missing, ", ")
	}

	var optional []string
	if rec.Priority == "" {
		optional = append(optional, "priority")
	}
	if rec.Size == "" {
		optional = append(optional, "size")
	}
	if len(optional) > 0 {
		return true, "Warning: Missing optional fields: " + strings.Join(optional, ", ")
	}

	return true, "OK"
}
