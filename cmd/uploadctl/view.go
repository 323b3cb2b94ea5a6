package main

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/volume-uploader/backend/internal/widget"
)

// syncWriter serialises writes from the REPL and the controller goroutine.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// terminalView prints what changed between two renders.
type terminalView struct {
	out     io.Writer
	last    widget.State
	started bool
}

func newTerminalView(out io.Writer) *terminalView {
	return &terminalView{out: out}
}

func (v *terminalView) Render(s widget.State) {
	prev := v.last
	v.last = s
	if !v.started {
		v.started = true
		fmt.Fprintf(v.out, "file: %s\n", s.Label())
		return
	}

	if s.Label() != prev.Label() {
		fmt.Fprintf(v.out, "file: %s\n", s.Label())
	}
	if s.Mode != prev.Mode {
		fmt.Fprintf(v.out, "%s\n", s.ButtonLabel())
	}
	if s.Message.ID != prev.Message.ID && s.Message.Visible {
		fmt.Fprintf(v.out, "[%s] %s\n", s.Message.Kind, s.Message.Text)
	}
	if !sameFiles(s, prev) {
		writeList(v.out, s.List())
	}
}

func sameFiles(a, b widget.State) bool {
	if len(a.Files) != len(b.Files) || (a.Files == nil) != (b.Files == nil) {
		return false
	}
	for i := range a.Files {
		if a.Files[i] != b.Files[i] {
			return false
		}
	}
	return true
}

func writeList(w io.Writer, list widget.ListView) {
	if list.Empty {
		fmt.Fprintln(w, widget.EmptyListText)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSIZE\tMODIFIED")
	for _, row := range list.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Name, row.Size, row.Modified)
	}
	tw.Flush()
}

func writeStatus(w io.Writer, s widget.State) {
	fmt.Fprintf(w, "file:    %s\n", s.Label())
	fmt.Fprintf(w, "mode:    %s\n", s.Mode)
	fmt.Fprintf(w, "button:  %s (enabled=%t)\n", s.ButtonLabel(), s.ButtonEnabled())
	if s.Message.Visible {
		fmt.Fprintf(w, "message: [%s] %s\n", s.Message.Kind, s.Message.Text)
	}
	writeList(w, s.List())
}
