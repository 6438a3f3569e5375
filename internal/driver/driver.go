package driver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dshills/cursorseq/internal/logging"
	"github.com/dshills/cursorseq/internal/sequence"
)

// Driver executes commands against a live sequence.
// A Driver is not safe for concurrent use.
type Driver struct {
	seq   *sequence.Sequence[float64]
	saved *sequence.Sequence[float64]

	out     io.Writer
	log     *logging.Logger
	prompt  string
	echo    bool
	maxLine int
	seqOpts []sequence.Option

	commands int
	failures int
}

// Option configures a Driver.
type Option func(*Driver)

// WithOutput sets where command output is written. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(d *Driver) {
		d.out = w
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(d *Driver) {
		d.log = l
	}
}

// WithPrompt sets the prompt Run writes before reading each line.
func WithPrompt(p string) Option {
	return func(d *Driver) {
		d.prompt = p
	}
}

// WithEcho makes Run write every line it reads back to the output.
func WithEcho(echo bool) Option {
	return func(d *Driver) {
		d.echo = echo
	}
}

// WithMaxLineLength sets the longest line Run accepts, in bytes.
// Defaults to MaxLineLength.
func WithMaxLineLength(n int) Option {
	return func(d *Driver) {
		d.maxLine = n
	}
}

// WithSequenceOptions sets the options used for the live sequence and
// for every sequence created by the new command. They replace the
// default cap of sequence.DefaultMaxCapacity.
func WithSequenceOptions(opts ...sequence.Option) Option {
	return func(d *Driver) {
		d.seqOpts = opts
	}
}

// New creates a driver with an empty live sequence.
func New(opts ...Option) (*Driver, error) {
	d := &Driver{
		out:     os.Stdout,
		log:     logging.Nop(),
		maxLine: MaxLineLength,
		seqOpts: []sequence.Option{sequence.WithMaxCapacity(sequence.DefaultMaxCapacity)},
	}
	for _, opt := range opts {
		opt(d)
	}

	s, err := sequence.New[float64](d.seqOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating sequence: %w", err)
	}
	d.seq = s
	d.log = d.log.WithComponent("driver")
	return d, nil
}

// Sequence returns the live sequence.
func (d *Driver) Sequence() *sequence.Sequence[float64] {
	return d.seq
}

// Commands returns the number of commands executed, including failed ones.
func (d *Driver) Commands() int {
	return d.commands
}

// Failures returns the number of commands that failed.
func (d *Driver) Failures() int {
	return d.failures
}

// Exec executes one command line. Blank lines and lines starting with #
// are ignored. It returns ErrQuit for the quit command and a
// *CommandError for any failure, including contract violations.
func (d *Driver) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return nil
	}

	d.commands++
	name, args := fields[0], fields[1:]

	c, ok := lookupCommand(name)
	if !ok {
		return d.fail(name, ErrUnknownCommand)
	}
	if len(args) < c.minArgs || len(args) > c.maxArgs {
		return d.fail(c.name, fmt.Errorf("%w: %s takes %s", ErrArgument, c.name, argCount(c)))
	}

	err := d.call(c, args)
	if errors.Is(err, ErrQuit) {
		return ErrQuit
	}
	if err != nil {
		return d.fail(c.name, err)
	}

	d.log.Debug("%s %s -> %s", c.name, strings.Join(args, " "), d.seq)
	return nil
}

// MaxLineLength is the default limit on the length of a line read by Run.
const MaxLineLength = 1 << 20

// Run reads and executes commands from r until EOF, the quit command or
// cancellation of ctx. Cancellation is noticed between lines. Failed
// commands are reported on the output and do not stop the run; neither
// does a line over the length limit, which is discarded and counted as a
// failed command.
func (d *Driver) Run(ctx context.Context, r io.Reader) error {
	br := bufio.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.prompt != "" {
			_, _ = io.WriteString(d.out, d.prompt)
		}

		line, err := readLine(br, d.maxLine)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if errors.Is(err, ErrLineTooLong) {
			d.commands++
			d.println("error: " + d.fail("input", err).Error())
			continue
		}
		if err != nil {
			return err
		}

		if d.echo {
			d.println(line)
		}

		err = d.Exec(line)
		if errors.Is(err, ErrQuit) {
			return nil
		}
		if err != nil {
			d.println("error: " + err.Error())
		}
	}
}

// readLine returns the next line without its line ending. A line longer
// than limit bytes is consumed in full and reported as ErrLineTooLong.
// The final line need not end in a newline.
func readLine(br *bufio.Reader, limit int) (string, error) {
	var buf []byte
	n := 0
	for {
		chunk, err := br.ReadSlice('\n')
		n += len(chunk)
		if n <= limit+2 {
			buf = append(buf, chunk...)
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err != nil && (!errors.Is(err, io.EOF) || n == 0) {
			return "", err
		}
		break
	}

	if n > limit+2 {
		return "", fmt.Errorf("%w: over %d bytes", ErrLineTooLong, limit)
	}
	line := strings.TrimSuffix(strings.TrimSuffix(string(buf), "\n"), "\r")
	if len(line) > limit {
		return "", fmt.Errorf("%w: over %d bytes", ErrLineTooLong, limit)
	}
	return line, nil
}

// call runs c, turning a contract violation raised by the sequence into
// an error. Any other panic is not ours to handle.
func (d *Driver) call(c *command, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ce, ok := sequence.AsContractError(r)
			if !ok {
				panic(r)
			}
			err = ce
		}
	}()
	return c.run(d, args)
}

func (d *Driver) fail(name string, err error) error {
	d.failures++
	d.log.WithField("command", name).Warn("%v", err)
	return &CommandError{Command: name, Err: err}
}

func (d *Driver) println(s string) {
	_, _ = fmt.Fprintln(d.out, s)
}

func argCount(c *command) string {
	switch {
	case c.minArgs == c.maxArgs && c.maxArgs == 0:
		return "no arguments"
	case c.minArgs == c.maxArgs && c.maxArgs == 1:
		return "1 argument"
	case c.minArgs == c.maxArgs:
		return fmt.Sprintf("%d arguments", c.maxArgs)
	default:
		return fmt.Sprintf("%d to %d arguments", c.minArgs, c.maxArgs)
	}
}
