// main.go - Command line entry point

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147mIntuition DSP\033[0m \033[38;2;255;140;147mblock-based audio VM\033[0m")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/IntuitionEngine")
	fmt.Println("License: GPLv3 or later")
}

type cliOptions struct {
	configPath string
	logLevel   string
	logModules string
}

// setup loads the config and installs logging, letting flags override the file.
func (o *cliOptions) setup() (Config, error) {
	cfg, err := LoadConfig(o.configPath)
	if err != nil {
		return cfg, err
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logModules != "" {
		cfg.LogModules = o.logModules
	}
	cfg.ApplyLogging()
	return cfg, nil
}

// loadProgram reads a container or runs a script against bank.
func loadProgram(path string, bank *SampleBank) (*Program, error) {
	if strings.EqualFold(filepath.Ext(path), ".lua") {
		return RunProgramScriptWith(path, bank)
	}
	return LoadProgramFile(path)
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:   "intuition_dsp",
		Short: "Block-based audio DSP virtual machine",
		Long: `intuition_dsp runs programs of audio opcodes block by block, with live
parameters, glitch-free hot swapping and beat-synchronised sequencing.
Programs are .idsp containers or .lua scripts.`,
		SilenceUsage: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "TOML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.logModules, "log-modules", "", "comma separated log modules")

	root.AddCommand(
		newPlayCmd(opts),
		newRenderCmd(opts),
		newPlotCmd(opts),
		newDisasmCmd(opts),
		newCompileCmd(opts),
		newInfoCmd(),
	)
	return root
}

func newPlayCmd(opts *cliOptions) *cobra.Command {
	var serve bool
	var listen string
	cmd := &cobra.Command{
		Use:   "play <program>",
		Short: "Play a program with a control console",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.setup()
			if err != nil {
				return err
			}
			boilerPlate()

			vm := NewVM(cfg.VMConfig())
			prog, err := loadProgram(args[0], vm.SampleBank())
			if err != nil {
				return err
			}
			if err := applyProgram(vm, prog, true); err != nil {
				return err
			}

			player, err := NewOtoPlayer(int(cfg.SampleRate))
			if err != nil {
				return fmt.Errorf("audio output: %w", err)
			}
			player.SetupPlayer(vm)
			player.Start()
			defer player.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if serve || cfg.Server.Enabled {
				addr := cfg.Server.Listen
				if listen != "" {
					addr = listen
				}
				srv := NewControlServer(vm)
				go func() {
					if err := srv.Serve(ctx, addr); err != nil {
						logError(LOG_SERVER, "control server stopped", "err", err)
					}
				}()
			}

			fmt.Printf("playing %s at %g bpm, type help for commands\n", prog.Name, vm.BPM())
			return NewConsole(vm, func(p string) (*Program, error) {
				return loadProgram(p, vm.SampleBank())
			}).Run(ctx, os.Stdin, os.Stdout)
		},
	}
	cmd.Flags().BoolVar(&serve, "serve", false, "start the websocket control server")
	cmd.Flags().StringVar(&listen, "listen", "", "control server address (overrides config)")
	return cmd
}

func newRenderCmd(opts *cliOptions) *cobra.Command {
	var output string
	var seconds float64
	var workers int
	cmd := &cobra.Command{
		Use:   "render <program>...",
		Short: "Render programs to WAV files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.setup()
			if err != nil {
				return err
			}
			if output != "" && len(args) > 1 {
				return fmt.Errorf("-o needs exactly one program")
			}
			if seconds <= 0 {
				seconds = cfg.Render.Seconds
			}
			if workers <= 0 {
				workers = cfg.Render.Workers
			}

			bank := NewSampleBank()
			progs := make([]*Program, len(args))
			for i, a := range args {
				if progs[i], err = loadProgram(a, bank); err != nil {
					return err
				}
			}
			vmCfg := cfg.VMConfig()
			vmCfg.Samples = bank

			renders, err := RenderMany(cmd.Context(), progs, vmCfg, seconds, workers)
			if err != nil {
				return err
			}
			for i := range renders {
				path := output
				if path == "" {
					path = replaceExt(args[i], ".wav")
				}
				if err := WriteWAVFile(path, &renders[i]); err != nil {
					return err
				}
				fmt.Printf("%s: %d frames -> %s\n", args[i], len(renders[i].L), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output WAV file")
	cmd.Flags().Float64VarP(&seconds, "seconds", "s", 0, "length in seconds (config default)")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "parallel renders")
	return cmd
}

func newPlotCmd(opts *cliOptions) *cobra.Command {
	var output string
	var seconds float64
	var decimate int
	cmd := &cobra.Command{
		Use:   "plot <program>",
		Short: "Render a program and chart its waveform as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.setup()
			if err != nil {
				return err
			}
			if seconds <= 0 {
				seconds = cfg.Render.Seconds
			}
			if decimate <= 0 {
				decimate = cfg.Render.Decimate
			}
			vmCfg := cfg.VMConfig()
			vmCfg.Samples = NewSampleBank()
			prog, err := loadProgram(args[0], vmCfg.Samples)
			if err != nil {
				return err
			}
			vm, err := NewProgramVM(vmCfg, prog)
			if err != nil {
				return err
			}
			l, r, err := RenderProgram(cmd.Context(), vm, seconds)
			if err != nil {
				return err
			}
			if output == "" {
				output = replaceExt(args[0], ".html")
			}
			return PlotWaveformFile(output, &Rendered{Name: prog.Name, L: l, R: r, SampleRate: vm.SampleRate()}, decimate)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output HTML file")
	cmd.Flags().Float64VarP(&seconds, "seconds", "s", 0, "length in seconds (config default)")
	cmd.Flags().IntVar(&decimate, "decimate", 0, "keep every Nth frame (config default)")
	return cmd
}

func newDisasmCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <program>",
		Short: "List a program's instructions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.setup(); err != nil {
				return err
			}
			prog, err := loadProgram(args[0], nil)
			if err != nil {
				return err
			}
			fmt.Print(Disassemble(prog))
			if err := ValidateProgram(prog); err != nil {
				fmt.Println("; invalid:", err)
			}
			return nil
		},
	}
}

func newCompileCmd(opts *cliOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "compile <script.lua>",
		Short: "Run a Lua script and write the program container",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := opts.setup(); err != nil {
				return err
			}
			prog, err := RunProgramScript(args[0])
			if err != nil {
				return err
			}
			if err := ValidateProgram(prog); err != nil {
				return err
			}
			if output == "" {
				output = replaceExt(args[0], PROGRAM_EXT)
			}
			if err := WriteProgramFile(output, prog); err != nil {
				return err
			}
			fmt.Printf("%s: %d instructions, %d seeds -> %s\n", prog.Name, len(prog.Instructions), len(prog.Seeds), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output .idsp file")
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show engine limits and the opcode table",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			boilerPlate()
			fmt.Println()
			printFeatures(os.Stdout)
			fmt.Println()
			fmt.Printf("block %d samples, %d buffers, %d states, %d instructions max, arena %d MiB\n\n",
				BLOCK_SIZE, MAX_BUFFERS, MAX_STATES, MAX_PROGRAM_SIZE, DEFAULT_ARENA_MIB)
			for op := 0; op < 256; op++ {
				info := Opcode(op).Info()
				if !info.Valid {
					continue
				}
				state := ""
				if info.Stateful {
					state = "stateful"
				}
				fmt.Printf("%3d  %-20s inputs>=%d  %s\n", op, info.Name, info.MinInputs, state)
			}
		},
	}
}
