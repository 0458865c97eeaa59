package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Conceptual-Machines/accomplay-go/agents/accompanist"
	"github.com/Conceptual-Machines/accomplay-go/server"
	"github.com/spf13/cobra"
)

const (
	defaultScaleFile = "my_scale.mid"
	defaultChordFile = "Chord_Scale.mid"
)

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from ACCOMPLAY_ADDR or :8080)")
	rootCmd.AddCommand(scaleCmd, chordCmd, progressionCmd, askCmd, serveCmd)
}

var scaleCmd = &cobra.Command{
	Use:     "scale ROOT [MODE]",
	Short:   "Write a scale",
	Example: "  accomplay scale C major\n  accomplay scale F# minor --note-length 0.25",
	Args:    cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := accompanist.ScaleRequest{Root: args[0], Mode: "major"}
		if len(args) > 1 {
			req.Mode = args[1]
		}

		arrangement, err := generator.GenerateScale(cmd.Context(), req)
		if err != nil {
			return err
		}
		return emit(cmd, arrangement, defaultScaleFile)
	},
}

var chordCmd = &cobra.Command{
	Use:     "chord ROOT[:MODE[:SEVENTH[:BEATS]]]",
	Short:   "Write one arpeggiated chord over a metronome",
	Example: "  accomplay chord D:minor:minor:0.5",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := accompanist.ParseChordToken(args[0])
		if err != nil {
			return err
		}

		arrangement, err := generator.GenerateChord(cmd.Context(), req)
		if err != nil {
			return err
		}
		return emit(cmd, arrangement, defaultChordFile)
	},
}

var progressionCmd = &cobra.Command{
	Use:   "progression CHORD...",
	Short: "Write an arpeggiated chord progression over a metronome",
	Long: `Each CHORD is ROOT[:MODE[:SEVENTH[:BEATS]]]. MODE is major or minor,
SEVENTH is none, diatonic, minor, major or augmented, BEATS is the length
of each arpeggio note.`,
	Example: "  accomplay progression C A:minor F G:major:minor --time-signature 3/4",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := accompanist.ProgressionRequest{}
		for _, token := range args {
			chord, err := accompanist.ParseChordToken(token)
			if err != nil {
				return err
			}
			req.Chords = append(req.Chords, chord)
		}

		arrangement, err := generator.GenerateProgression(cmd.Context(), req)
		if err != nil {
			return err
		}
		return emit(cmd, arrangement, defaultChordFile)
	},
}

var askCmd = &cobra.Command{
	Use:     "ask QUESTION",
	Short:   "Describe a progression in plain language",
	Example: `  accomplay ask "a slow ii-V-I in B flat with sevenths"`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		interp, err := newInterpreter(cmd.Context())
		if err != nil {
			return err
		}

		result, err := interp.Interpret(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if result.Explanation != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "🎵 %s\n", result.Explanation)
		}

		arrangement, err := generator.GenerateProgression(cmd.Context(), result.Request)
		if err != nil {
			return err
		}
		return emit(cmd, arrangement, defaultChordFile)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interp, err := newInterpreter(cmd.Context())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠️  /v1/interpret disabled: %v\n", err)
		}

		addr, _ := cmd.Flags().GetString("addr")
		if !cmd.Flags().Changed("addr") {
			addr = cfg.Addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(generator, interp).ListenAndServe(ctx, addr)
	},
}
