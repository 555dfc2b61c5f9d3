// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"go.astrophena.name/colorsync/testutil"
)

func TestPutGet(t *testing.T) {
	ctx := context.Background()
	testutil.AssertEqual(t, IsDefault(Get(ctx)), true)

	l := New(nil)
	ctx = Put(ctx, l)
	testutil.AssertEqual(t, Get(ctx) == l, true)
	testutil.AssertEqual(t, IsDefault(Get(ctx)), false)
}

func TestFanout(t *testing.T) {
	l := New(nil)
	var first, second bytes.Buffer
	l.Attach(slog.NewTextHandler(&first, &slog.HandlerOptions{Level: l.Level}))
	l.Attach(slog.NewTextHandler(&second, &slog.HandlerOptions{Level: l.Level}))

	ctx := Put(context.Background(), l)
	Debug(ctx, "hidden")
	Info(ctx, "visible", slog.String("pair", "a.color"))

	for name, buf := range map[string]*bytes.Buffer{"first": &first, "second": &second} {
		out := buf.String()
		if strings.Contains(out, "hidden") {
			t.Errorf("%s handler got a debug message at info level: %q", name, out)
		}
		if !strings.Contains(out, "msg=visible pair=a.color") {
			t.Errorf("%s handler missing info message: %q", name, out)
		}
	}

	l.Level.Set(slog.LevelDebug)
	Debug(ctx, "now shown")
	if !strings.Contains(first.String(), "now shown") {
		t.Errorf("debug message not logged after level change: %q", first.String())
	}
}

func TestWithAttrs(t *testing.T) {
	l := New(nil)
	var buf bytes.Buffer
	l.Attach(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: l.Level}))

	l.With("dir", "src").Warn("scan failed")
	if !strings.Contains(buf.String(), "dir=src") {
		t.Fatalf("attrs not propagated: %q", buf.String())
	}
}
