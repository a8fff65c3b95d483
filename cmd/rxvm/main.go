// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/ezrec/rxvm/asm"
	"github.com/ezrec/rxvm/gen"
	"github.com/ezrec/rxvm/internal"
	"github.com/ezrec/rxvm/machine"
	"github.com/ezrec/rxvm/translate"
	"github.com/ezrec/rxvm/vm"
)

var f = translate.From

var ErrGenerateName = errors.New(f("-g expects PACKAGE.NAME"))

// run executes the command line, returning the exit code.
func run(args []string, stdin io.Reader, stdout io.Writer) (code int, err error) {
	var compile string
	var config string
	var steps int
	var depth int
	var memo bool
	var cycle string
	var verbose bool
	var disassemble bool
	var generate string
	var input string

	flags := flag.NewFlagSet("rxvm", flag.ContinueOnError)
	flags.StringVar(&compile, "c", "", ".rx file to compile")
	flags.StringVar(&config, "config", "", ".toml configuration file")
	flags.IntVar(&steps, "steps", 0, "Step budget per text")
	flags.IntVar(&depth, "depth", 0, "Choice point limit")
	flags.BoolVar(&memo, "memo", false, "Memoize explored states")
	flags.StringVar(&cycle, "cycle", "abort", "Cycle policy (abort or fail)")
	flags.BoolVar(&verbose, "v", false, "Verbose mode")
	flags.BoolVar(&disassemble, "d", false, "Disassemble, do not execute")
	flags.StringVar(&generate, "g", "", "Generate Go source as PACKAGE.NAME, do not execute")
	flags.StringVar(&input, "i", "", "Text input file, one text per line ('-' for stdin)")

	err = flags.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		err = nil
		return
	}
	if err != nil {
		code = 2
		return
	}

	if len(compile) == 0 {
		err = errors.New(f("-c is required"))
		code = 2
		return
	}

	m := machine.NewMachine()
	m.Verbose = verbose

	if len(config) != 0 {
		var inf *os.File
		inf, err = os.Open(config)
		if err != nil {
			return
		}
		defer inf.Close()

		err = machine.LoadConfig(inf, &m.Config)
		if err != nil {
			err = fmt.Errorf("%v: %w", config, err)
			return
		}
	}

	// Command line flags override the configuration file.
	flags.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "steps":
			m.Config.MaxSteps = steps
		case "depth":
			m.Config.MaxDepth = depth
		case "memo":
			m.Config.Memoize = memo
		case "cycle":
			var _err error
			m.Config.Cycle, _err = vm.ParseCyclePolicy(cycle)
			if _err != nil && err == nil {
				err = _err
			}
		}
	})
	if err != nil {
		code = 2
		return
	}

	// Compile a new instruction stream.
	inf, err := os.Open(compile)
	if err != nil {
		return
	}
	defer inf.Close()

	err = m.Load(inf)
	if err != nil {
		err = fmt.Errorf("%v: %w", compile, err)
		return
	}

	if disassemble {
		err = asm.Disassemble(stdout, m.Program())
		return
	}

	if len(generate) != 0 {
		pkg, name, ok := strings.Cut(generate, ".")
		if !ok {
			err = ErrGenerateName
			code = 2
			return
		}
		err = gen.Generate(stdout, pkg, name, m.Program())
		return
	}

	tape := &machine.Tape{Output: stdout}
	if input == "-" {
		tape.Input = stdin
	} else if len(input) != 0 {
		var inf *os.File
		inf, err = os.Open(input)
		if err != nil {
			return
		}
		defer inf.Close()
		tape.Input = inf
	}

	texts := slices.Values(flags.Args())
	for text := range internal.Concat(texts, tape.Texts()) {
		res, _err := m.Match(text)
		if _err != nil {
			code = 1
		}
		err = tape.Send(text, res, _err)
		if err != nil {
			return
		}
	}

	err = tape.Err()

	return
}

func main() {
	code, err := run(os.Args[1:], os.Stdin, os.Stdout)
	if err != nil {
		log.Printf("%v: %v", os.Args[0], err)
		if code == 0 {
			code = 1
		}
	}

	os.Exit(code)
}
