// Copyright 2026 Google Inc. All Rights Reserved.
// This file is available under the Apache license.

package parser

import (
	"bufio"
	"fmt"
	"io"
)

// WriteTokensXML drains the tokenizer, writing each token as an XML element
// named for its kind, wrapped in a <tokens> element.  Symbols are written in
// their display form.
func WriteTokensXML(w io.Writer, t *Tokenizer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "<tokens>")
	for t.HasMoreTokens() {
		if err := t.Advance(); err != nil {
			return err
		}
		tok := t.Current()
		fmt.Fprintf(bw, "<%s> %s </%s>\n", tok.Kind, tok.Display(), tok.Kind)
	}
	fmt.Fprintln(bw, "</tokens>")
	return bw.Flush()
}
