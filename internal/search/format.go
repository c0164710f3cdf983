// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
)

// FormatList writes one identifier per line followed by a count.
func FormatList(ids []string, w io.Writer) {
	if len(ids) == 0 {
		fmt.Fprintln(w, "No identifiers found.")
		return
	}
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
	fmt.Fprintf(w, "\n%d identifiers\n", len(ids))
}

// FormatJSON writes identifiers as an indented JSON array.
func FormatJSON(ids []string, w io.Writer) error {
	if ids == nil {
		ids = []string{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ids)
}
