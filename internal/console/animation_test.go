// Copyright (c) 2025 April
// Licensed under the MIT License. See LICENSE file in the project root for details.

package console

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"april/cli/internal/terminal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// recorder keeps every Write as a separate record so tests can check that
// frames are never split or interleaved with foreground output.
type recorder struct {
	mu      sync.Mutex
	records []string
}

func (r *recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, string(p))
	return len(p), nil
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.records...)
}

var testFrames = []string{"|", "/", "-", "\\"}

func isFrame(rec string) bool {
	if !strings.HasPrefix(rec, terminal.ClearLine) {
		return false
	}
	body := strings.TrimPrefix(rec, terminal.ClearLine)
	for _, f := range testFrames {
		if strings.HasPrefix(body, f+" ") {
			label := strings.TrimPrefix(body, f+" ")
			return label == "Generating" || label == "Following"
		}
	}
	return false
}

func TestStartDrawsImmediately(t *testing.T) {
	rec := &recorder{}
	a := Start(rec, "Generating", WithFrames(testFrames), WithInterval(time.Hour))
	defer a.Stop()

	records := rec.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, terminal.ClearLine+"| Generating", records[0])
}

func TestRedrawsOnInterval(t *testing.T) {
	rec := &recorder{}
	a := Start(rec, "Generating", WithFrames(testFrames), WithInterval(time.Millisecond))

	require.Eventually(t, func() bool { return len(rec.snapshot()) >= 5 }, time.Second, time.Millisecond)
	a.Stop()

	records := rec.snapshot()
	assert.Equal(t, terminal.ClearLine, records[len(records)-1], "stop clears the line")
	for _, r := range records[:len(records)-1] {
		assert.True(t, isFrame(r), "unexpected record %q", r)
	}
}

func TestPauseSuppressesFrames(t *testing.T) {
	rec := &recorder{}
	a := Start(rec, "Generating", WithFrames(testFrames), WithInterval(time.Millisecond))
	defer a.Stop()

	a.Pause()
	n := len(rec.snapshot())
	assert.Equal(t, terminal.ClearLine, rec.snapshot()[n-1])

	time.Sleep(20 * time.Millisecond)
	assert.Len(t, rec.snapshot(), n, "no frames may be drawn while paused")

	a.Pause()
	assert.Len(t, rec.snapshot(), n, "second pause is a no-op")
}

func TestResumeReplacesLabel(t *testing.T) {
	rec := &recorder{}
	a := Start(rec, "Generating", WithFrames(testFrames), WithInterval(time.Hour))
	defer a.Stop()

	a.Pause()
	a.Resume("Following")
	assert.Equal(t, "Following", a.currentLabel())

	records := rec.snapshot()
	assert.Equal(t, terminal.ClearLine+"| Following", records[len(records)-1])

	a.Pause()
	a.Resume("")
	assert.Equal(t, "Following", a.currentLabel(), "empty label keeps the current one")
}

// Foreground lines printed between Pause and Resume must never share the line
// with a frame: each one directly follows the clear written by Pause.
func TestPauseResumeNeverInterleaves(t *testing.T) {
	rec := &recorder{}
	a := Start(rec, "Generating", WithFrames(testFrames), WithInterval(50*time.Microsecond))

	for i := 0; i < 300; i++ {
		a.Pause()
		fmt.Fprintf(rec, "line %d\n", i)
		a.Resume("")
	}
	a.Stop()

	records := rec.snapshot()
	lines := 0
	for i, r := range records {
		if strings.HasPrefix(r, "line ") {
			lines++
			require.Greater(t, i, 0)
			require.Equal(t, terminal.ClearLine, records[i-1], "line %q follows %q", r, records[i-1])
			continue
		}
		if r == terminal.ClearLine {
			continue
		}
		require.True(t, isFrame(r), "partial or foreign frame %q", r)
	}
	assert.Equal(t, 300, lines)
}

func TestStopIsIdempotent(t *testing.T) {
	rec := &recorder{}
	a := Start(rec, "Generating", WithFrames(testFrames), WithInterval(time.Millisecond))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.Stop()
		}()
	}
	wg.Wait()
	n := len(rec.snapshot())

	a.Stop()
	a.Pause()
	a.Resume("Following")
	time.Sleep(5 * time.Millisecond)
	assert.Len(t, rec.snapshot(), n, "a stopped animation never draws again")
}

func TestStyleDecoratesGlyph(t *testing.T) {
	var buf bytes.Buffer
	a := Start(&buf, "Generating",
		WithFrames(testFrames),
		WithInterval(time.Hour),
		WithStyle(func(s string) string { return "<" + s + ">" }))
	a.Stop()

	assert.Equal(t, terminal.ClearLine+"<|> Generating"+terminal.ClearLine, buf.String())
}
