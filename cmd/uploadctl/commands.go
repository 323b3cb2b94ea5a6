package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/volume-uploader/backend/internal/models"
	"github.com/volume-uploader/backend/internal/widget"
)

// errQuit ends the REPL.
var errQuit = errors.New("quit")

// controller is the part of widget.Controller the REPL drives.
type controller interface {
	SelectFile(f *widget.File)
	AcceptDrop(files []widget.File)
	Submit()
	Refresh()
	DismissMessage()
	State() widget.State
}

// healthFunc queries GET /health.
type healthFunc func(ctx context.Context) (*models.HealthStatus, error)

const healthTimeout = 5 * time.Second

// shell executes REPL lines against a controller.
type shell struct {
	ctl    controller
	health healthFunc
	out    io.Writer
}

const helpText = `commands:
  select <path>      choose a file
  drop <path>...     drop files (only the first is used)
  clear              clear the selection
  upload             upload the selected file
  refresh            reload the file list
  dismiss            hide the current message
  status             show the form and file list
  health             show the server's volume status
  quit               exit
`

// execute runs one input line.
func (sh *shell) execute(ctx context.Context, line string) error {
	ctl, out := sh.ctl, sh.out
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "select":
		if len(args) != 1 {
			return fmt.Errorf("usage: select <path>")
		}
		f, err := widget.FileFromPath(args[0])
		if err != nil {
			return err
		}
		ctl.SelectFile(&f)
	case "drop":
		files := make([]widget.File, 0, len(args))
		for _, path := range args {
			f, err := widget.FileFromPath(path)
			if err != nil {
				return err
			}
			files = append(files, f)
		}
		ctl.AcceptDrop(files)
	case "clear":
		ctl.SelectFile(nil)
	case "upload":
		ctl.Submit()
	case "refresh":
		ctl.Refresh()
	case "dismiss":
		ctl.DismissMessage()
	case "status":
		writeStatus(out, ctl.State())
	case "health":
		return sh.printHealth(ctx)
	case "help", "?":
		fmt.Fprint(out, helpText)
	case "quit", "exit":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

func (sh *shell) printHealth(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	status, err := sh.health(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	fmt.Fprintf(sh.out, "status:  %s\n", status.Status)
	fmt.Fprintf(sh.out, "volume:  %s (accessible=%t)\n", status.VolumePath, status.VolumeAccessible)
	if status.Message != "" {
		fmt.Fprintf(sh.out, "message: %s\n", status.Message)
	}
	return nil
}
