package renderer

import (
	"strconv"
	"strings"
)

// joinTags formats a parcel's tag list for a table cell.
func joinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// CSVRows flattens a by-tag listing into plain CSV rows, one string slice
// per line, reusing the already encoded cells.
func CSVRows(rows []TagRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			strconv.FormatInt(r.Parcel, 10), r.Date,
			strconv.FormatInt(r.Trans, 10), r.Descr, r.Amount,
		})
	}
	return out
}
