// Package flwarrior contains an interactive workbench for formal languages. It
// reads commands from an input stream and applies them to the machine,
// grammar, and lexer rules being worked on until the user quits.
package flwarrior

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dekarrin/flwarrior/internal/command"
	"github.com/dekarrin/flwarrior/internal/flerrors"
	"github.com/dekarrin/flwarrior/internal/input"
	"github.com/dekarrin/flwarrior/internal/render"
	"github.com/dekarrin/flwarrior/internal/version"
)

// Engine contains the things needed to run a workbench from an interactive
// shell attached to an input stream and an output stream.
type Engine struct {
	bench       *Workbench
	in          command.Reader
	out         *bufio.Writer
	forceDirect bool
	running     bool
}

// Options holds the optional settings of an Engine.
type Options struct {
	// ForceDirect makes the Engine read input directly even when it is
	// attached to a terminal, instead of going through readline.
	ForceDirect bool

	// LoadFile is an FLW file to load before the first command.
	LoadFile string

	// HistoryFile is where readline keeps command history. It is not used
	// when input is read directly.
	HistoryFile string
}

// New creates a new engine ready to operate on the given input and output
// streams. It will immediately open a buffered reader on the input stream and a
// buffered writer on the output stream.
//
// If nil is given for the input stream, a bufio.Reader is opened on stdin. If
// nil is given for the output stream, a bufio.Writer is opened on stdout.
func New(inputStream io.Reader, outputStream io.Writer, opts Options) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	eng := &Engine{
		bench:       &Workbench{},
		out:         bufio.NewWriter(outputStream),
		running:     false,
		forceDirect: opts.ForceDirect,
	}

	if opts.LoadFile != "" {
		if _, err := eng.bench.load(opts.LoadFile); err != nil {
			return nil, err
		}
	}

	useReadline := !opts.ForceDirect && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		var err error
		eng.in, err = input.NewInteractiveReader(input.DefaultPrompt, opts.HistoryFile)
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Workbench returns the Workbench that the Engine applies commands to.
func (eng *Engine) Workbench() *Workbench {
	return eng.bench
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running engine")
	}

	err := eng.in.Close()
	if err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// RunUntilQuit begins reading commands from the streams and applying them to
// the workbench until the QUIT command is received or input ends.
func (eng *Engine) RunUntilQuit() error {
	introMsg := "FLWarrior Workbench v" + version.Current + "\n"
	if eng.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "===========================\n"
	introMsg += "Type HELP for a list of commands\n"

	if err := eng.write(introMsg); err != nil {
		return err
	}

	eng.running = true
	// so we dont have to remember to do this on every returned error condition
	defer func() {
		eng.running = false
	}()

	for eng.running {
		cmd, err := command.Get(eng.in, eng.out)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("get user command: %w", err)
		}

		if cmd.Verb == "QUIT" {
			eng.running = false
			break
		}

		output, err := eng.bench.Execute(cmd)
		if err != nil {
			output = render.Wrap(flerrors.Message(err))
		}
		if err := eng.write(output + "\n"); err != nil {
			return err
		}
		eng.updatePrompt()
	}

	return eng.write("Goodbye\n")
}

// updatePrompt puts the workbench status in the prompt. It only applies when
// reading through readline.
func (eng *Engine) updatePrompt() {
	icr, ok := eng.in.(*input.InteractiveCommandReader)
	if !ok {
		return
	}
	p := promptFor(eng.bench.Status())
	if p != icr.GetPrompt() {
		icr.SetPrompt(p)
	}
}

func promptFor(status string) string {
	if status == "" {
		return input.DefaultPrompt
	}
	return "flw [" + status + "]> "
}

func (eng *Engine) write(s string) error {
	if _, err := eng.out.WriteString(s); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := eng.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}
