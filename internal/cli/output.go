package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// failed is returned by commands whose check ran but did not pass, so the
// process exits non-zero after the report is printed.
type failed string

func (f failed) Error() string { return string(f) }

func failedf(format string, args ...any) error {
	return failed(fmt.Sprintf(format, args...))
}
