package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/apex/log"

	"codeberg.org/snonux/deeptranslate/internal"
	"codeberg.org/snonux/deeptranslate/internal/cli"
	"codeberg.org/snonux/deeptranslate/internal/glossary"
	"codeberg.org/snonux/deeptranslate/internal/gui"
	"codeberg.org/snonux/deeptranslate/internal/history"
	"codeberg.org/snonux/deeptranslate/internal/input"
	"codeberg.org/snonux/deeptranslate/internal/logging"
	"codeberg.org/snonux/deeptranslate/internal/models"
	"codeberg.org/snonux/deeptranslate/internal/ocr"
	"codeberg.org/snonux/deeptranslate/internal/translation"
	"codeberg.org/snonux/deeptranslate/internal/workflow"
)

// Processor wires the components together for one run of the program
type Processor struct {
	flags    *cli.Flags
	settings *cli.Settings

	resolver   *input.Resolver
	translator *translation.Client
	recorder   workflow.Recorder
	store      *history.Store

	// Output receives translations and listings. Defaults to os.Stdout.
	Output io.Writer
}

// NewProcessor creates a new processor from the flags and the viper
// configuration.
func NewProcessor(flags *cli.Flags) (*Processor, error) {
	settings, err := cli.LoadSettings(flags)
	if err != nil {
		return nil, err
	}

	if err := logging.Setup(settings.LogLevel); err != nil {
		return nil, err
	}

	recognizer, err := ocr.New(settings.OCR)
	if errors.Is(err, ocr.ErrMissingKey) {
		// Text input still works, images fail with an OCR error
		log.WithError(err).Warn("OCR engine unavailable")
		recognizer = ocr.Unavailable(err)
	} else if err != nil {
		return nil, err
	}

	return &Processor{
		flags:      flags,
		settings:   settings,
		resolver:   input.NewResolver(recognizer),
		translator: translation.NewClient(settings.Translation),
		Output:     os.Stdout,
	}, nil
}

// openHistory opens the history store unless it is disabled. A store that
// cannot be opened disables the history for this run.
func (p *Processor) openHistory() {
	if !p.settings.HistoryEnabled || p.store != nil {
		return
	}

	store, err := history.Open(p.settings.HistoryPath)
	if err != nil {
		log.WithError(err).Warn("translation history disabled")
		return
	}

	p.store = store
	p.recorder = store
}

// Close releases the history store
func (p *Processor) Close() error {
	if p.store == nil {
		return nil
	}
	err := p.store.Close()
	p.store = nil
	p.recorder = nil
	return err
}

func (p *Processor) newOrchestrator() *workflow.Orchestrator {
	return workflow.New(workflow.Config{
		Resolver:   p.resolver,
		Translator: p.translator,
		Recorder:   p.recorder,
	})
}

// ProcessSingle translates the --text or --image input and prints the
// result or writes it to --output.
func (p *Processor) ProcessSingle(ctx context.Context) error {
	target, err := translation.ParseLanguage(p.flags.Target)
	if err != nil {
		return err
	}

	var entries []string
	if p.flags.GlossaryFile != "" {
		entries, err = glossary.Load(p.flags.GlossaryFile)
		if err != nil {
			return err
		}
		log.WithField("entries", len(entries)).Info("glossary loaded")
	}

	req := workflow.Request{
		Mode:     input.TextMode,
		Text:     p.flags.Text,
		Target:   target,
		Glossary: entries,
		APIKey:   cli.GetAPIKey(),
	}
	if p.flags.ImagePath != "" {
		req.Mode = input.ImageMode
		req.ImagePath = p.flags.ImagePath
	}

	p.openHistory()
	defer p.Close()

	result, err := p.newOrchestrator().Run(ctx, req)
	if err != nil {
		return err
	}

	if p.flags.OutputFile != "" {
		if err := translation.SaveTranslation(p.flags.OutputFile, result); err != nil {
			return err
		}
		log.WithField("file", p.flags.OutputFile).Info("translation saved")
		return nil
	}

	_, err = fmt.Fprintln(p.Output, result)
	return err
}

// ListModels prints the models available at the translation endpoint
func (p *Processor) ListModels(ctx context.Context) error {
	lister := models.NewLister(cli.GetAPIKey(), p.settings.Translation.BaseURL)
	return lister.ListAvailableModels(ctx, p.Output)
}

// ShowHistory prints the n most recent translations
func (p *Processor) ShowHistory(ctx context.Context, n int) error {
	store, err := history.Open(p.settings.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(ctx, n)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(p.Output, "No translations recorded yet.")
		return nil
	}

	for _, e := range entries {
		fmt.Fprintf(p.Output, "%s  [%s -> %s]  %s\n    %s\n",
			e.CreatedAt.Format(time.DateTime), e.Mode, e.Target,
			internal.Abbreviate(e.Source, 60), internal.Abbreviate(e.Translation, 60))
	}

	return nil
}

// ArchiveHistory moves the history database into the archive directory
func (p *Processor) ArchiveHistory() error {
	archived, err := history.Archive(p.settings.HistoryPath)
	if err != nil {
		return fmt.Errorf("failed to archive history: %w", err)
	}
	fmt.Fprintf(p.Output, "History archived to %s\n", archived)
	return nil
}

// RunGUIMode launches the GUI application
func (p *Processor) RunGUIMode() error {
	target, err := translation.ParseLanguage(p.flags.Target)
	if err != nil {
		return err
	}

	p.openHistory()
	defer p.Close()

	guiConfig := &gui.Config{
		Resolver:     p.resolver,
		Translator:   p.translator,
		Recorder:     p.recorder,
		APIKey:       cli.GetAPIKey(),
		Target:       target,
		GlossaryFile: p.flags.GlossaryFile,
	}

	app := gui.New(guiConfig)

	// Mirror the log into the window
	if err := logging.Setup(p.settings.LogLevel, app.LogHandler()); err != nil {
		return err
	}

	app.Run()

	return nil
}
