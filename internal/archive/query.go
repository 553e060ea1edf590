package archive

import "strings"

// MediaTypeFilter restricts a query to the archive's video-like media types.
// Appended by BuildQuery whenever the caller has not constrained mediatype
// themselves, so a query is never empty and never returns texts or audio.
const MediaTypeFilter = "(mediatype:movies OR mediatype:video OR mediatype:film OR mediatype:television OR mediatype:webcast OR mediatype:vlog)"

const dateLayout = "2006-01-02"

// BuildQuery translates a structured query into the archive's query-string
// grammar. Pure function: no error conditions, identical input yields
// identical output, and the result is never empty.
func BuildQuery(mainQuery string, fields []QueryField, dateRange QueryDateRange) string {
	var parts []string

	if q := strings.TrimSpace(mainQuery); q != "" {
		parts = append(parts, q)
	}

	for _, f := range fields {
		term := strings.TrimSpace(f.Term)
		if term == "" {
			continue
		}

		clause := term
		if f.IsPhrase {
			clause = `"` + clause + `"`
		} else if f.UseWildcard && !strings.HasSuffix(clause, "*") {
			clause += "*"
		}
		if f.TargetField != "" && f.TargetField != "any" {
			clause = f.TargetField + ":" + clause
		}

		op := strings.TrimSpace(f.Operator)
		switch {
		case len(parts) > 0 && op != "":
			parts = append(parts, op, clause)
		case len(parts) == 0 && op == "NOT":
			// A leading negation is the one operator allowed first.
			parts = append(parts, op, clause)
		case len(parts) > 0:
			parts = append(parts, "AND", clause)
		default:
			parts = append(parts, clause)
		}
	}

	if dateRange.StartDate != nil || dateRange.EndDate != nil {
		start, end := "*", "*"
		if dateRange.StartDate != nil {
			start = dateRange.StartDate.Format(dateLayout)
		}
		if dateRange.EndDate != nil {
			end = dateRange.EndDate.Format(dateLayout)
		}
		if len(parts) > 0 {
			parts = append(parts, "AND")
		}
		parts = append(parts, "date:["+start+" TO "+end+"]")
	}

	query := strings.Join(parts, " ")
	return ensureMediaTypeFilter(query)
}

// ensureMediaTypeFilter appends the video media-type restriction unless the
// query already constrains mediatype. An empty query becomes the restriction
// alone, which searches all videos.
func ensureMediaTypeFilter(query string) string {
	if strings.Contains(strings.ToLower(query), "mediatype:") {
		return query
	}
	if query == "" {
		return MediaTypeFilter
	}
	return query + " AND " + MediaTypeFilter
}
