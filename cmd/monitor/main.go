// Command monitor loads a raw 6502 program image and either runs it at a
// paced clock frequency or drops into the interactive debugger.
package main

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/urfave/cli.v2"

	"mos6502/cpu"
)

func main() {
	app := &cli.App{
		Name:    "monitor",
		Usage:   "load and run a 6502 program image",
		Version: "v0.0.1",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "load address, hex (e.g. 8000)",
				Value:   "8000",
			},
			&cli.Float64Flag{
				Name:    "hz",
				Aliases: []string{"z"},
				Usage:   "paced clock frequency in Hz",
				Value:   1_000_000,
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "start the interactive debugger instead of free-running",
			},
		},
		Action: run,
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	path := ctx.Args().First()
	if path == "" {
		cli.ShowAppHelp(ctx)
		return cli.Exit("missing program image path", 86)
	}

	program, err := os.ReadFile(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("reading program image: %v", err), 1)
	}

	var addr uint16
	if _, err := fmt.Sscanf(ctx.String("addr"), "%x", &addr); err != nil {
		return cli.Exit(fmt.Sprintf("invalid --addr %q: %v", ctx.String("addr"), err), 1)
	}

	c, err := cpu.NewCPU(addr, ctx.Float64("hz"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if ctx.Bool("debug") {
		return c.Debug(program, addr)
	}

	c.LoadProgram(program, addr)
	c.ProgramCounter = addr
	c.Run(nil)

	if c.HaltReason() != "" {
		fmt.Printf("halted: %s\n", c.HaltReason())
	}
	fmt.Printf("A:%02X X:%02X Y:%02X PC:%04X CYC:%d\n", c.Accumulator, c.X, c.Y, c.ProgramCounter, c.Cycles)
	return nil
}
