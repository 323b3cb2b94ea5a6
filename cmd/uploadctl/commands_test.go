package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volume-uploader/backend/internal/models"
	"github.com/volume-uploader/backend/internal/widget"
)

type recordingController struct {
	selected []*widget.File
	dropped  [][]widget.File
	submits  int
	refresh  int
	dismiss  int
	state    widget.State
}

func (r *recordingController) SelectFile(f *widget.File)      { r.selected = append(r.selected, f) }
func (r *recordingController) AcceptDrop(files []widget.File) { r.dropped = append(r.dropped, files) }
func (r *recordingController) Submit()                        { r.submits++ }
func (r *recordingController) Refresh()                       { r.refresh++ }
func (r *recordingController) DismissMessage()                { r.dismiss++ }
func (r *recordingController) State() widget.State            { return r.state }

func newShell(ctl controller, out *bytes.Buffer) *shell {
	return &shell{
		ctl: ctl,
		health: func(ctx context.Context) (*models.HealthStatus, error) {
			return &models.HealthStatus{Status: "healthy", VolumePath: "/data", VolumeAccessible: true, Message: "Directory ready"}, nil
		},
		out: out,
	}
}

func writeTempFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	return path
}

func TestExecute(t *testing.T) {
	a := writeTempFile(t, "a.txt", 10)
	b := writeTempFile(t, "b.txt", 20)

	ctl := &recordingController{}
	var out bytes.Buffer
	sh, ctx := newShell(ctl, &out), context.Background()

	require.NoError(t, sh.execute(ctx, "select "+a))
	require.Len(t, ctl.selected, 1)
	assert.Equal(t, "a.txt", ctl.selected[0].Name)
	assert.Equal(t, int64(10), ctl.selected[0].Size)

	require.NoError(t, sh.execute(ctx, "drop "+a+" "+b))
	require.Len(t, ctl.dropped, 1)
	assert.Len(t, ctl.dropped[0], 2)

	require.NoError(t, sh.execute(ctx, "clear"))
	assert.Nil(t, ctl.selected[1])

	require.NoError(t, sh.execute(ctx, "upload"))
	require.NoError(t, sh.execute(ctx, "refresh"))
	require.NoError(t, sh.execute(ctx, "dismiss"))
	require.NoError(t, sh.execute(ctx, "   "))
	assert.Equal(t, 1, ctl.submits)
	assert.Equal(t, 1, ctl.refresh)
	assert.Equal(t, 1, ctl.dismiss)

	assert.ErrorIs(t, sh.execute(ctx, "quit"), errQuit)
	assert.ErrorIs(t, sh.execute(ctx, "exit"), errQuit)
}

func TestExecute_Errors(t *testing.T) {
	ctl := &recordingController{}
	var out bytes.Buffer
	sh, ctx := newShell(ctl, &out), context.Background()

	tests := []struct {
		name string
		line string
	}{
		{"select without path", "select"},
		{"select missing file", "select /does/not/exist"},
		{"select directory", "select " + t.TempDir()},
		{"drop missing file", "drop /does/not/exist"},
		{"unknown command", "frobnicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, sh.execute(ctx, tt.line))
		})
	}
	assert.Empty(t, ctl.selected)
	assert.Empty(t, ctl.dropped)
}

func TestExecute_Status(t *testing.T) {
	ctl := &recordingController{state: widget.State{
		Files: []models.FileRecord{{Name: "report.pdf", Size: 2048, Modified: "2024-01-02 03:04:05"}},
	}}
	var out bytes.Buffer
	sh, ctx := newShell(ctl, &out), context.Background()

	require.NoError(t, sh.execute(ctx, "status"))
	assert.Contains(t, out.String(), widget.PlaceholderLabel)
	assert.Contains(t, out.String(), "report.pdf")
	assert.Contains(t, out.String(), "2.00 KB")
	assert.Contains(t, out.String(), "2024-01-02 03:04:05")
}

func TestExecute_Health(t *testing.T) {
	var out bytes.Buffer
	sh := newShell(&recordingController{}, &out)

	require.NoError(t, sh.execute(context.Background(), "health"))
	assert.Contains(t, out.String(), "status:  healthy")
	assert.Contains(t, out.String(), "volume:  /data (accessible=true)")

	sh.health = func(ctx context.Context) (*models.HealthStatus, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil, errors.New("connection refused")
	}
	err := sh.execute(context.Background(), "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestTerminalView(t *testing.T) {
	var out bytes.Buffer
	v := newTerminalView(&out)

	v.Render(widget.State{})
	assert.Contains(t, out.String(), widget.PlaceholderLabel)

	out.Reset()
	v.Render(widget.State{Files: []models.FileRecord{}})
	assert.Contains(t, out.String(), widget.EmptyListText)

	out.Reset()
	s := widget.State{
		Files:   []models.FileRecord{},
		Message: widget.Message{ID: 1, Text: "File \"a.txt\" uploaded successfully", Kind: widget.MessageSuccess, Visible: true},
	}
	v.Render(s)
	assert.Equal(t, "[success] File \"a.txt\" uploaded successfully\n", out.String())

	out.Reset()
	v.Render(s)
	assert.Empty(t, out.String(), "an unchanged state prints nothing")
}
