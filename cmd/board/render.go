package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"

	"github.com/devaloi/msgboard/internal/board"
)

// terminalRenderer prints the board to a terminal. It runs on the UI loop only.
type terminalRenderer struct {
	out  io.Writer
	last board.ComposerState
}

func (r *terminalRenderer) RenderList(rows []string) {
	table := tablewriter.NewWriter(r.out)
	table.SetHeader([]string{"#", "Message"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for i, row := range rows {
		table.Append([]string{strconv.Itoa(i + 1), row})
	}
	table.Render()
}

func (r *terminalRenderer) RenderComposer(state board.ComposerState) {
	// Draft keystrokes are not echoed back.
	changed := state.State != r.last.State ||
		state.InputEnabled != r.last.InputEnabled ||
		state.DockHeight != r.last.DockHeight ||
		state.DockAnimating != r.last.DockAnimating ||
		state.LastError != r.last.LastError
	r.last = state
	if !changed {
		return
	}

	line := fmt.Sprintf("[%s] input=%t submit=%t dock=%.0f", state.State, state.InputEnabled, state.SubmitEnabled, state.DockHeight)
	if state.DockAnimating {
		line += " (sliding)"
	}
	style := color.New(color.FgGreen)
	switch {
	case state.LastError != nil:
		line += " error: " + state.LastError.Error()
		style = color.New(color.FgRed)
	case state.State == board.Submitting:
		style = color.New(color.FgYellow)
	}
	fmt.Fprintln(r.out, style.Render(line))
}
