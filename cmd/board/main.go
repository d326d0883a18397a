package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"

	"github.com/devaloi/msgboard/internal/board"
	"github.com/devaloi/msgboard/internal/config"
	"github.com/devaloi/msgboard/internal/remote"
	"github.com/devaloi/msgboard/internal/uiloop"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	policy, err := board.ParseDraftPolicy(cfg.DraftOnFailure)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := remote.New(cfg.ServerURL, cfg.RequestTimeout, log)

	loop := uiloop.New(64, log)
	go loop.Run()
	defer loop.Stop()

	screen := board.NewScreen(client, loop, &terminalRenderer{out: os.Stdout}, board.Options{
		Table:       cfg.Table,
		DraftPolicy: policy,
	}, log)
	if err := screen.Start(ctx); err != nil {
		return fmt.Errorf("start board: %w", err)
	}

	if cfg.LiveUpdates {
		user := "board-" + uuid.NewString()[:8]
		go func() {
			if err := client.Subscribe(ctx, cfg.Table, user, screen.OnCreated(ctx)); err != nil {
				log.Warn("Live updates unavailable", "error", err)
			}
		}()
	}

	if cfg.RefreshSchedule != "" {
		sched, err := board.NewScheduler(cfg.RefreshSchedule, func() { screen.RefreshAsync(ctx) }, log)
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	fmt.Println(color.New(color.FgCyan).Render("Type a message and press enter. /refresh reloads, /quit exits."))

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if err := handleLine(ctx, screen, strings.TrimSpace(line)); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				return err
			}
		}
	}
}

var errQuit = errors.New("quit")

func handleLine(ctx context.Context, screen *board.Screen, line string) error {
	switch line {
	case "/quit":
		return errQuit
	case "/refresh":
		screen.RefreshAsync(ctx)
		return nil
	}

	if err := screen.FocusInput(); err != nil {
		return err
	}
	if err := screen.Type(line); err != nil {
		return err
	}
	return screen.Submit(ctx, line, func(err error) {
		if err != nil {
			fmt.Println(color.New(color.FgRed).Render("not sent: " + err.Error()))
		}
	})
}
