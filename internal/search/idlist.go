// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Response is the part of an esearch reply the resolver reads.
type Response struct {
	// Count is the total number of matches reported upstream, which may
	// exceed len(IDs) when retmax truncates the list. Zero when absent.
	Count int

	// IDs are the identifiers in document order.
	IDs []string

	// HasIDList reports whether the IdList container was present.
	HasIDList bool
}

// ParseIDList returns the identifiers listed in an esearch XML document.
// See ParseResponse.
func ParseIDList(r io.Reader) ([]string, error) {
	resp, err := ParseResponse(r)
	if err != nil {
		return nil, err
	}
	return resp.IDs, nil
}

// ParseResponse streams an esearch XML document. It locates the first
// IdList element directly under the root and reads the trimmed text of each
// of its child elements; character data between children is ignored. A
// document without IdList yields an empty list and no error. Malformed XML
// or a document with no root element is an error.
func ParseResponse(r io.Reader) (Response, error) {
	dec := xml.NewDecoder(r)

	out := Response{IDs: []string{}}
	var (
		depth    int
		sawRoot  bool
		inList   bool
		inCount  bool
		inItem   bool
		text     strings.Builder
		countBuf strings.Builder
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Response{}, fmt.Errorf("parsing search response: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			switch {
			case depth == 1:
				sawRoot = true
			case depth == 2 && t.Name.Local == "IdList" && !out.HasIDList:
				inList = true
				out.HasIDList = true
			case depth == 2 && t.Name.Local == "Count" && out.Count == 0:
				inCount = true
				countBuf.Reset()
			case depth == 3 && inList:
				inItem = true
				text.Reset()
			}
		case xml.EndElement:
			switch {
			case depth == 3 && inItem:
				out.IDs = append(out.IDs, strings.TrimSpace(text.String()))
				inItem = false
			case depth == 2 && inList:
				inList = false
			case depth == 2 && inCount:
				if n, err := strconv.Atoi(strings.TrimSpace(countBuf.String())); err == nil {
					out.Count = n
				}
				inCount = false
			}
			depth--
		case xml.CharData:
			if inItem {
				text.Write(t)
			} else if inCount {
				countBuf.Write(t)
			}
		}
	}

	if !sawRoot {
		return Response{}, fmt.Errorf("parsing search response: no root element")
	}
	return out, nil
}
