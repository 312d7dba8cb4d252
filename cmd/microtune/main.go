// Package main is the entry point for the microtune resampler and CLI
package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/james-see/microtune/pkg/api"
	"github.com/james-see/microtune/pkg/config"
	"github.com/james-see/microtune/pkg/detune"
	"github.com/james-see/microtune/pkg/notes"
	"github.com/james-see/microtune/pkg/pitch"
	"github.com/james-see/microtune/pkg/preview"
	"github.com/james-see/microtune/pkg/resampler"
	"github.com/james-see/microtune/pkg/tuning"
	"github.com/james-see/microtune/pkg/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const logPrefix = "[microtune]"

var (
	configPath string
	tuningFile string
	edoCount   int
	centerNote int
	baseNote   string
	outputFile string
	tempo      float64
	bendRange  uint8
	fromNote   string
	toNote     string
	serverPort int
)

// exitCode carries a renderer's exit status out of cobra
type exitCode int

func (e exitCode) Error() string {
	return fmt.Sprintf("renderer exited with status %d", int(e))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var code exitCode
		if errors.As(err, &code) {
			os.Exit(int(code))
		}
		fmt.Fprintln(os.Stderr, logPrefix, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "microtune " + resampler.Usage(),
	Short: "Microtonal wrapper resampler for UTAU-style synthesizers",
	Long: `microtune retunes a resampler call into a microtonal tuning and hands it to
the real renderer.

Called with the 13 resampler arguments, microtune rewrites the pitch and
pitchbend arguments and runs the renderer listed in its config file (a file
named "config" beside the executable, or $MICROTUNE_CONFIG):

    # comment
    !1 "C:\Program Files (x86)\UTAU\resampler.exe"
    1 "C:\5 equal divisions of 2_1 (1).tun"

Flags read from the resampler flag string:
    #n  n-EDO tuning
    $n  center note (MIDI index) of the EDO, default 69
    ^n  tuning file index from the config (cannot be combined with # or $)
    !n  renderer index from the config, default 1

Examples:
  microtune decode 'AA#4#AB'
  microtune encode 0 0 0 50
  microtune transform --note C5 --edo 31 'AA#20#'
  microtune table --tuning meantone.scl
  microtune preview --note A4 --edo 31 'AA#100#' -o a4.mid
  microtune tui
  microtune serve --port 8080`,
	Version:            fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:               cobra.ArbitraryArgs,
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE:               runResample,
}

var decodeCmd = &cobra.Command{
	Use:   "decode <pitchbend>",
	Short: "Print the cent offsets of a pitch-bend string",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecode,
}

var encodeCmd = &cobra.Command{
	Use:   "encode <cents>...",
	Short: "Encode cent offsets as a pitch-bend string",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runEncode,
}

var transformCmd = &cobra.Command{
	Use:   "transform <pitchbend>",
	Short: "Retune a note and pitch-bend string",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTransform,
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print tuned pitches for a range of notes",
	Args:  cobra.NoArgs,
	RunE:  runTable,
}

var previewCmd = &cobra.Command{
	Use:   "preview <pitchbend>",
	Short: "Render a retuned note as a MIDI file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPreview,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the renderers and tuning files in the config",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive tuning explorer",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Tuning selection shared by the inspection commands
	for _, cmd := range []*cobra.Command{transformCmd, tableCmd, previewCmd} {
		cmd.Flags().StringVarP(&tuningFile, "tuning", "t", "", "Tuning file (.scl or .tun)")
		cmd.Flags().IntVarP(&edoCount, "edo", "e", detune.DefaultDivisions, "Equal divisions of the octave")
		cmd.Flags().IntVarP(&centerNote, "center", "c", notes.A4, "Center note (MIDI index) of the tuning")
	}

	// transform and preview
	for _, cmd := range []*cobra.Command{transformCmd, previewCmd} {
		cmd.Flags().StringVarP(&baseNote, "note", "n", "A4", "Base note name")
	}

	// table command
	tableCmd.Flags().StringVar(&fromNote, "from", "C4", "First note")
	tableCmd.Flags().StringVar(&toNote, "to", "C5", "Last note")

	// preview command
	previewCmd.Flags().StringVarP(&outputFile, "output", "o", "preview.mid", "Output .mid file path")
	previewCmd.Flags().Float64Var(&tempo, "tempo", preview.DefaultTempo, "Tempo in BPM")
	previewCmd.Flags().Uint8Var(&bendRange, "bend-range", preview.DefaultRange, "Pitch bend range in semitones")

	// config command
	configCmd.Flags().StringVar(&configPath, "config", "", "Config file path")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", api.DefaultPort, "Server port")

	rootCmd.AddCommand(decodeCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(transformCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func warn(warnings ...error) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, logPrefix, w)
	}
}

// runResample is the resampler entry point called by the host
func runResample(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	switch args[0] {
	case "-h", "--help", "help":
		return cmd.Help()
	case "-v", "--version":
		fmt.Println(cmd.Version)
		return nil
	}

	inv, err := resampler.Parse(args)
	if err != nil {
		return fmt.Errorf("%w\ncommand given: %s", err, strings.Join(args, " "))
	}

	path, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, warnings, err := config.Load(path)
	if err != nil {
		return err
	}
	warn(warnings...)

	flags, warnings := detune.ParseFlags(inv.Get(resampler.Flags))
	warn(warnings...)

	src, warnings := detune.Select(flags, cfg)
	warn(warnings...)

	result, err := detune.Transform(inv.Get(resampler.Pitch), inv.Get(resampler.PitchBend), src)
	if err != nil {
		return err
	}
	warn(result.Warnings...)
	if result.Clipped > 0 {
		fmt.Fprintf(os.Stderr, "%s Warning: %d pitch bend point(s) clipped out of range\n", logPrefix, result.Clipped)
	}

	exe, ok := cfg.Executable(flags.ResamplerIndex)
	if !ok {
		return fmt.Errorf("no renderer !%d in %s", flags.ResamplerIndex, cfg.Path)
	}

	fmt.Printf("%s %s: %s -> %s (%s)\n", logPrefix, src.Name(), inv.Get(resampler.Pitch), result.Note, filepath.Base(exe))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	code, err := resampler.Run(ctx, exe, inv.WithPitch(result.Note, result.Bend), os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	if code != 0 {
		return exitCode(code)
	}
	return nil
}

// selectedTuning builds the tuning named by the shared tuning flags
func selectedTuning() (*tuning.Source, error) {
	if tuningFile != "" {
		src, warnings, err := tuning.Load(tuningFile, tuning.WithReference(centerNote))
		warn(warnings...)
		return src, err
	}
	return tuning.EqualDivision(edoCount, tuning.WithReference(centerNote))
}

func bendArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func runDecode(cmd *cobra.Command, args []string) error {
	stream, err := pitch.Decode(args[0])
	if err != nil {
		warn(err)
	}

	parts := make([]string, len(stream))
	for i, v := range stream {
		parts[i] = strconv.Itoa(int(v))
	}
	fmt.Println(strings.Join(parts, " "))
	return nil
}

func runEncode(cmd *cobra.Command, args []string) error {
	stream := make(pitch.Stream, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("invalid cent value %q: %w", a, err)
		}
		c, clipped := pitch.Clamp(v)
		if clipped {
			fmt.Fprintf(os.Stderr, "%s Warning: %s clipped to %d\n", logPrefix, a, c)
		}
		stream = append(stream, c)
	}

	bend, err := pitch.Encode(stream)
	if err != nil {
		return err
	}
	fmt.Println(bend)
	return nil
}

func runTransform(cmd *cobra.Command, args []string) error {
	src, err := selectedTuning()
	if err != nil {
		return err
	}

	result, err := detune.Transform(baseNote, bendArg(args), src)
	if err != nil {
		return err
	}
	warn(result.Warnings...)

	fmt.Printf("tuning:  %s\n", src.Name())
	fmt.Printf("note:    %s -> %s\n", baseNote, result.Note)
	fmt.Printf("average: %.2f cents from A4\n", result.Average)
	if result.Clipped > 0 {
		fmt.Printf("clipped: %d\n", result.Clipped)
	}
	fmt.Printf("bend:    %s\n", result.Bend)
	return nil
}

func runTable(cmd *cobra.Command, args []string) error {
	src, err := selectedTuning()
	if err != nil {
		return err
	}
	from, err := notes.ToIndex(fromNote)
	if err != nil {
		return err
	}
	to, err := notes.ToIndex(toNote)
	if err != nil {
		return err
	}

	rows, err := tuning.Chart(src, from, to)
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s, %d steps)\n", src.Name(), src.Kind(), src.Len())
	fmt.Printf("%-5s %9s %10s %10s\n", "NOTE", "12-EDO", "TUNED", "DEVIATION")
	for _, r := range rows {
		fmt.Printf("%-5s %9.0f %10.2f %+10.2f\n", r.Name, r.Cents12, r.Tuned, r.Deviation)
	}
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	src, err := selectedTuning()
	if err != nil {
		return err
	}

	result, err := detune.Transform(baseNote, bendArg(args), src)
	if err != nil {
		return err
	}
	warn(result.Warnings...)

	note, err := notes.ToIndex(result.Note)
	if err != nil {
		return err
	}

	opts := preview.DefaultOptions()
	opts.Tempo = tempo
	opts.BendRange = bendRange
	if err := preview.WriteFile(outputFile, note, result.Stream, opts); err != nil {
		return err
	}

	fmt.Printf("Rendered %s in %s as %s -> %s\n", baseNote, src.Name(), result.Note, outputFile)
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	cfg, warnings, err := config.Load(path)
	if err != nil {
		return err
	}
	warn(warnings...)

	fmt.Printf("config: %s\n", cfg.Path)
	fmt.Println("renderers:")
	for _, i := range slices.Sorted(maps.Keys(cfg.Executables)) {
		fmt.Printf("  !%d %s\n", i, cfg.Executables[i])
	}
	fmt.Println("tunings:")
	for _, i := range slices.Sorted(maps.Keys(cfg.Tunings)) {
		fmt.Printf("  ^%d %s\n", i, cfg.Tunings[i])
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Printf("Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
