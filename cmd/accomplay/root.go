package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Conceptual-Machines/accomplay-go/agents/accompanist"
	"github.com/Conceptual-Machines/accomplay-go/agents/interpreter"
	"github.com/Conceptual-Machines/accomplay-go/config"
	"github.com/Conceptual-Machines/accomplay-go/llm"
	"github.com/Conceptual-Machines/accomplay-go/models"
	"github.com/Conceptual-Machines/accomplay-go/render"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const sentryFlushTimeout = 2 * time.Second

var (
	cfg       *config.Config
	generator *accompanist.Generator

	outputPath string
	wavPath    string
	printJSON  bool
)

var rootCmd = &cobra.Command{
	Use:   "accomplay",
	Short: "Arpeggiated accompaniment over a metronome",
	Long: `accomplay builds scales and arpeggiated chord progressions, sizes a
metronome click track around them and writes the result as a MIDI file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		sentry.Flush(sentryFlushTimeout)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.Float64("tempo", config.DefaultTempoBPM, "tempo in quarter notes per minute")
	flags.String("time-signature", config.DefaultTimeSignature, "time signature, e.g. 3/4 or 6/8")
	flags.Float64("note-length", config.DefaultNoteQuarterLength, "default note length in quarter lengths")
	flags.Int("measures", 0, "metronome measures (0 = enough for the content plus two)")
	flags.String("alignment", config.DefaultAlignment, "content alignment against the click track: end or lead-in")
	flags.String("model", config.DefaultModel, "LLM model for the ask command")
	flags.StringVarP(&outputPath, "output", "o", "", "MIDI output file")
	flags.StringVar(&wavPath, "wav", "", "also render a WAV preview to this file")
	flags.BoolVar(&printJSON, "json", false, "print the arrangement as JSON")
}

// setup loads .env and the environment, then lets explicit flags win
func setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("⚠️  Warning: Could not load .env file: %v", err)
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	flags := cmd.Flags()
	if flags.Changed("tempo") {
		cfg.TempoBPM, _ = flags.GetFloat64("tempo")
	}
	if flags.Changed("time-signature") {
		cfg.TimeSignature, _ = flags.GetString("time-signature")
	}
	if flags.Changed("note-length") {
		cfg.NoteQuarterLength, _ = flags.GetFloat64("note-length")
	}
	if flags.Changed("measures") {
		cfg.MetronomeMeasures, _ = flags.GetInt("measures")
	}
	if flags.Changed("alignment") {
		cfg.Alignment, _ = flags.GetString("alignment")
	}
	if flags.Changed("model") {
		cfg.Model, _ = flags.GetString("model")
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
		}); err != nil {
			log.Printf("⚠️  Sentry initialization failed: %v", err)
		}
	}

	genCfg, err := accompanist.ConfigFrom(cfg)
	if err != nil {
		return err
	}
	generator, err = accompanist.NewGenerator(genCfg)
	return err
}

// newInterpreter builds the interpreter for the configured model, or returns
// nil when no matching API key is set
func newInterpreter(ctx context.Context) (*interpreter.Service, error) {
	factory := llm.NewProviderFactory(cfg.OpenAIAPIKey, cfg.GeminiAPIKey)
	provider, err := factory.GetProvider(ctx, cfg.Model, "")
	if err != nil {
		return nil, err
	}
	return interpreter.NewService(provider, cfg.Model, generator.Config())
}

// emit writes the arrangement to the requested outputs
func emit(cmd *cobra.Command, arrangement *models.Arrangement, defaultOutput string) error {
	for _, w := range arrangement.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	if printJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(arrangement); err != nil {
			return err
		}
	}

	path := outputPath
	if path == "" {
		path = defaultOutput
	}
	if err := render.WriteMIDIFile(path, arrangement); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "✅ wrote %s (%d notes", path, len(arrangement.Notes))
	if arrangement.Metronome != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), ", %d metronome measures, content at %.2f", arrangement.Metronome.Measures, arrangement.ContentOffset)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), ")")

	if wavPath != "" {
		if err := render.WritePreviewWAVFile(wavPath, arrangement); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "✅ wrote %s\n", wavPath)
	}
	return nil
}
