package finctrl

import (
	"encoding/csv"
	"fmt"
	"io"
)

// ExportCSV writes a listing as CSV with the given field separator. An empty
// header slice skips the header line.
func ExportCSV(w io.Writer, sep rune, headers []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if sep != 0 {
		cw.Comma = sep
	}
	if len(headers) > 0 {
		if err := cw.Write(headers); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: %v", ErrStorage, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
