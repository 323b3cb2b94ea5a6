// Command uploadctl is a terminal front end for the upload service.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/volume-uploader/backend/internal/client"
	"github.com/volume-uploader/backend/internal/logging"
	"github.com/volume-uploader/backend/internal/widget"
	"go.uber.org/zap"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "upload service base URL")
	useMsgpack := flag.Bool("msgpack", false, "request file listings as msgpack")
	logLevel := flag.String("log-level", "warn", "log level")
	flag.Parse()

	logger, err := logging.New(*logLevel, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	var opts []client.Option
	if *useMsgpack {
		opts = append(opts, client.WithMsgpack())
	}

	out := &syncWriter{w: os.Stdout}
	api := client.New(*server, opts...)
	ctl := widget.New(widget.Options{
		API:    api,
		View:   newTerminalView(out),
		Logger: logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := ctl.Run(ctx); err != nil {
			logger.Error("controller stopped", zap.Error(err))
		}
	}()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	sh := &shell{ctl: ctl, health: api.Health, out: out}

	fmt.Fprintf(out, "connected to %s, type help for commands\n", *server)
	for {
		select {
		case <-ctx.Done():
			<-ctl.Done()
			return
		case line, ok := <-lines:
			if !ok {
				stop()
				<-ctl.Done()
				return
			}
			if err := sh.execute(ctx, line); err != nil {
				if errors.Is(err, errQuit) {
					stop()
					<-ctl.Done()
					return
				}
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
	}
}
