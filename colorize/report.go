// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package colorize

//go:generate go tool templ generate -f report.templ

import (
	"context"
	"io"
)

// WriteReport writes the HTML report of res to w.
func WriteReport(ctx context.Context, w io.Writer, res *Result) error {
	return ReportPage(res).Render(ctx, w)
}
