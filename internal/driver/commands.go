package driver

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/cursorseq/internal/sequence"
)

// command is one entry of the command table.
type command struct {
	name    string
	aliases []string
	usage   string
	help    string
	minArgs int
	maxArgs int
	run     func(d *Driver, args []string) error
}

// commands is filled in by init because help refers back to it.
var commands []*command

// commandIndex maps every name and alias to its command.
var commandIndex map[string]*command

func init() {
	commands = []*command{
		{name: "start", aliases: []string{"!"}, help: "make the first item current", run: cmdStart},
		{name: "advance", aliases: []string{"+"}, help: "move to the next item", run: cmdAdvance},
		{name: "has", aliases: []string{"?"}, help: "report whether there is a current item", run: cmdHas},
		{name: "current", aliases: []string{"c"}, help: "print the current item", run: cmdCurrent},
		{name: "insert", aliases: []string{"i"}, usage: "<x>", help: "insert x before the current item", minArgs: 1, maxArgs: 1, run: cmdInsert},
		{name: "attach", aliases: []string{"a"}, usage: "<x>", help: "attach x after the current item", minArgs: 1, maxArgs: 1, run: cmdAttach},
		{name: "remove", aliases: []string{"r"}, help: "remove the current item", run: cmdRemove},
		{name: "size", aliases: []string{"s"}, help: "print the number of items", run: cmdSize},
		{name: "capacity", aliases: []string{"cap"}, help: "print the backing store size", run: cmdCapacity},
		{name: "resize", aliases: []string{"z"}, usage: "<n>", help: "set the capacity (never below size)", minArgs: 1, maxArgs: 1, run: cmdResize},
		{name: "print", aliases: []string{"p"}, help: "print the items, current in parentheses", run: cmdPrint},
		{name: "new", usage: "[capacity]", help: "replace the sequence with an empty one", maxArgs: 1, run: cmdNew},
		{name: "save", help: "copy the sequence into the save slot", run: cmdSave},
		{name: "restore", help: "assign the save slot back to the sequence", run: cmdRestore},
		{name: "help", aliases: []string{"h"}, help: "list commands", run: cmdHelp},
		{name: "quit", aliases: []string{"q", "exit"}, help: "stop reading commands", run: cmdQuit},
	}

	commandIndex = make(map[string]*command)
	for _, c := range commands {
		commandIndex[c.name] = c
		for _, a := range c.aliases {
			commandIndex[a] = c
		}
	}
}

func lookupCommand(name string) (*command, bool) {
	c, ok := commandIndex[strings.ToLower(name)]
	return c, ok
}

func cmdStart(d *Driver, _ []string) error {
	d.seq.Start()
	return nil
}

func cmdAdvance(d *Driver, _ []string) error {
	d.seq.Advance()
	return nil
}

func cmdHas(d *Driver, _ []string) error {
	d.println(strconv.FormatBool(d.seq.HasCurrent()))
	return nil
}

func cmdCurrent(d *Driver, _ []string) error {
	d.println(formatValue(d.seq.Current()))
	return nil
}

func cmdInsert(d *Driver, args []string) error {
	x, err := parseValue(args[0])
	if err != nil {
		return err
	}
	return d.seq.Insert(x)
}

func cmdAttach(d *Driver, args []string) error {
	x, err := parseValue(args[0])
	if err != nil {
		return err
	}
	return d.seq.Attach(x)
}

func cmdRemove(d *Driver, _ []string) error {
	d.seq.RemoveCurrent()
	return nil
}

func cmdSize(d *Driver, _ []string) error {
	d.println(strconv.Itoa(d.seq.Size()))
	return nil
}

func cmdCapacity(d *Driver, _ []string) error {
	d.println(strconv.Itoa(d.seq.Capacity()))
	return nil
}

func cmdResize(d *Driver, args []string) error {
	n, err := parseCount(args[0])
	if err != nil {
		return err
	}
	return d.seq.Resize(n)
}

func cmdPrint(d *Driver, _ []string) error {
	d.println(d.seq.String())
	return nil
}

func cmdNew(d *Driver, args []string) error {
	opts := d.seqOpts
	if len(args) == 1 {
		n, err := parseCount(args[0])
		if err != nil {
			return err
		}
		opts = append(opts[:len(opts):len(opts)], sequence.WithInitialCapacity(n))
	}
	s, err := sequence.New[float64](opts...)
	if err != nil {
		return err
	}
	d.seq = s
	return nil
}

func cmdSave(d *Driver, _ []string) error {
	saved, err := d.seq.Clone()
	if err != nil {
		return err
	}
	d.saved = saved
	return nil
}

func cmdRestore(d *Driver, _ []string) error {
	if d.saved == nil {
		return ErrNothingSaved
	}
	return d.seq.Assign(d.saved)
}

func cmdHelp(d *Driver, _ []string) error {
	sorted := make([]*command, len(commands))
	copy(sorted, commands)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].name < sorted[j].name })

	for _, c := range sorted {
		names := c.name
		if c.usage != "" {
			names += " " + c.usage
		}
		if len(c.aliases) > 0 {
			names += " (" + strings.Join(c.aliases, ", ") + ")"
		}
		d.println(fmt.Sprintf("  %-28s %s", names, c.help))
	}
	return nil
}

func cmdQuit(_ *Driver, _ []string) error {
	return ErrQuit
}

func parseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrArgument, s)
	}
	return v, nil
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrArgument, s)
	}
	return n, nil
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
