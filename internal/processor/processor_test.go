package processor

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"codeberg.org/snonux/deeptranslate/internal/cli"
	"codeberg.org/snonux/deeptranslate/internal/glossary"
	"codeberg.org/snonux/deeptranslate/internal/input"
	"codeberg.org/snonux/deeptranslate/internal/ocr"
	"codeberg.org/snonux/deeptranslate/internal/testutil"
	"codeberg.org/snonux/deeptranslate/internal/translation"
	"codeberg.org/snonux/deeptranslate/internal/workflow"
)

// setup points the configuration at a fake chat API and a temporary
// history database.
func setup(t *testing.T) (*testutil.ChatServer, string) {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	server := testutil.NewChatServer(t, "Hello world")

	historyPath := filepath.Join(t.TempDir(), "history.db")
	viper.Set("api.base_url", server.URL)
	viper.Set("api.model", "deepseek-chat")
	viper.Set("history.path", historyPath)

	t.Setenv("DEEPTRANSLATE_API_KEY", "sk-test")
	t.Setenv("DEEPSEEK_API_KEY", "")

	return server, historyPath
}

func newTestProcessor(t *testing.T, flags *cli.Flags) (*Processor, *bytes.Buffer) {
	t.Helper()

	p, err := NewProcessor(flags)
	if err != nil {
		t.Fatalf("NewProcessor() error = %v", err)
	}

	var out bytes.Buffer
	p.Output = &out
	return p, &out
}

func TestNewProcessor(t *testing.T) {
	setup(t)

	flags := cli.NewFlags()
	p, _ := newTestProcessor(t, flags)

	if p.flags != flags {
		t.Error("Processor flags not set correctly")
	}

	if p.translator == nil {
		t.Error("Translator not initialized")
	}

	if p.resolver == nil {
		t.Error("Resolver not initialized")
	}

	if p.store != nil {
		t.Error("History must only be opened when needed")
	}
}

func TestNewProcessor_InvalidConfig(t *testing.T) {
	setup(t)
	viper.Set("ocr.engine", "carrier-pigeon")

	if _, err := NewProcessor(cli.NewFlags()); err == nil {
		t.Error("Expected error for unknown OCR engine")
	}
}

func TestProcessSingle_TextWithoutOCRKey(t *testing.T) {
	server, _ := setup(t)
	viper.Set("ocr.engine", "gemini")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	flags := cli.NewFlags()
	flags.Text = "你好世界"
	p, out := newTestProcessor(t, flags)

	if err := p.ProcessSingle(context.Background()); err != nil {
		t.Fatalf("ProcessSingle() error = %v", err)
	}
	if out.String() != "Hello world\n" {
		t.Errorf("Unexpected output %q", out.String())
	}
	if len(server.Requests()) != 1 {
		t.Errorf("Expected 1 request, got %d", len(server.Requests()))
	}
}

func TestProcessSingle_ImageWithoutOCRKey(t *testing.T) {
	server, _ := setup(t)
	viper.Set("ocr.engine", "gemini")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	flags := cli.NewFlags()
	flags.ImagePath = testutil.CreateTestPNG(t, t.TempDir())
	p, out := newTestProcessor(t, flags)

	err := p.ProcessSingle(context.Background())

	var ocrErr *input.OcrError
	if !errors.As(err, &ocrErr) {
		t.Fatalf("Expected OcrError, got %v", err)
	}
	if !errors.Is(err, ocr.ErrMissingKey) {
		t.Errorf("Expected the missing OCR key as cause, got %v", err)
	}
	if len(server.Requests()) != 0 || out.Len() != 0 {
		t.Error("No request or output expected when OCR is unavailable")
	}
}

func TestProcessSingle_Text(t *testing.T) {
	server, _ := setup(t)

	flags := cli.NewFlags()
	flags.Text = "  你好世界 "
	flags.Target = "en"
	p, out := newTestProcessor(t, flags)

	if err := p.ProcessSingle(context.Background()); err != nil {
		t.Fatalf("ProcessSingle() error = %v", err)
	}

	if out.String() != "Hello world\n" {
		t.Errorf("Unexpected output %q", out.String())
	}

	requests := server.Requests()
	if len(requests) != 1 {
		t.Fatalf("Expected 1 request, got %d", len(requests))
	}
	if requests[0].Authorization != "Bearer sk-test" {
		t.Errorf("Unexpected authorization header %q", requests[0].Authorization)
	}
	msgs := requests[0].Messages
	if len(msgs) != 2 || msgs[1].Content != "你好世界" {
		t.Errorf("Unexpected messages %+v", msgs)
	}
	if !strings.HasSuffix(msgs[0].Content, "4. 目标语言：英文") {
		t.Errorf("Unexpected system prompt %q", msgs[0].Content)
	}
}

func TestProcessSingle_Glossary(t *testing.T) {
	server, _ := setup(t)

	glossaryFile := testutil.CreateGlossaryFile(t, "世界|world")

	flags := cli.NewFlags()
	flags.Text = "你好世界"
	flags.GlossaryFile = glossaryFile
	p, _ := newTestProcessor(t, flags)

	if err := p.ProcessSingle(context.Background()); err != nil {
		t.Fatalf("ProcessSingle() error = %v", err)
	}

	system := server.Requests()[0].Messages[0].Content
	if !strings.Contains(system, "- \"世界|world\"\n") {
		t.Errorf("Glossary entry missing from prompt: %q", system)
	}
}

func TestProcessSingle_MissingGlossary(t *testing.T) {
	server, _ := setup(t)

	flags := cli.NewFlags()
	flags.Text = "你好"
	flags.GlossaryFile = filepath.Join(t.TempDir(), "missing.txt")
	p, _ := newTestProcessor(t, flags)

	err := p.ProcessSingle(context.Background())

	var readErr *glossary.FileReadError
	if !errors.As(err, &readErr) {
		t.Errorf("Expected FileReadError, got %v", err)
	}
	if len(server.Requests()) != 0 {
		t.Error("No request expected when the glossary cannot be read")
	}
}

func TestProcessSingle_MissingKey(t *testing.T) {
	server, _ := setup(t)
	t.Setenv("DEEPTRANSLATE_API_KEY", "")

	flags := cli.NewFlags()
	flags.Text = "你好"
	p, _ := newTestProcessor(t, flags)

	err := p.ProcessSingle(context.Background())
	if !errors.Is(err, workflow.ErrMissingKey) {
		t.Errorf("Expected ErrMissingKey, got %v", err)
	}
	if len(server.Requests()) != 0 {
		t.Error("No request expected without an API key")
	}
}

func TestProcessSingle_APIError(t *testing.T) {
	server, historyPath := setup(t)
	server.FailWith(http.StatusPaymentRequired)

	flags := cli.NewFlags()
	flags.Text = "你好"
	p, out := newTestProcessor(t, flags)

	err := p.ProcessSingle(context.Background())

	var apiErr *translation.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusPaymentRequired {
		t.Errorf("Expected status 402, got %d", apiErr.StatusCode)
	}
	if out.Len() != 0 {
		t.Errorf("No partial output expected, got %q", out.String())
	}

	// Failed translations are not recorded
	show, listing := newTestProcessor(t, cli.NewFlags())
	if err := show.ShowHistory(context.Background(), 5); err != nil {
		t.Fatalf("ShowHistory() error = %v", err)
	}
	if !strings.Contains(listing.String(), "No translations recorded yet.") {
		t.Errorf("Unexpected history %q (db %s)", listing.String(), historyPath)
	}
}

func TestProcessSingle_InvalidTarget(t *testing.T) {
	setup(t)

	flags := cli.NewFlags()
	flags.Text = "你好"
	flags.Target = "fr"
	p, _ := newTestProcessor(t, flags)

	if err := p.ProcessSingle(context.Background()); err == nil {
		t.Error("Expected error for unsupported target language")
	}
}

func TestProcessSingle_OutputFile(t *testing.T) {
	setup(t)

	outputFile := filepath.Join(t.TempDir(), "out", "translation.txt")

	flags := cli.NewFlags()
	flags.Text = "你好世界"
	flags.OutputFile = outputFile
	p, out := newTestProcessor(t, flags)

	if err := p.ProcessSingle(context.Background()); err != nil {
		t.Fatalf("ProcessSingle() error = %v", err)
	}

	testutil.AssertFileContent(t, outputFile, []byte("Hello world"))
	if out.Len() != 0 {
		t.Errorf("Nothing should be printed when writing to a file, got %q", out.String())
	}
}

func TestHistory_RecordShowArchive(t *testing.T) {
	_, historyPath := setup(t)

	flags := cli.NewFlags()
	flags.Text = "你好世界"
	p, _ := newTestProcessor(t, flags)

	if err := p.ProcessSingle(context.Background()); err != nil {
		t.Fatalf("ProcessSingle() error = %v", err)
	}

	showFlags := cli.NewFlags()
	show, out := newTestProcessor(t, showFlags)
	if err := show.ShowHistory(context.Background(), 10); err != nil {
		t.Fatalf("ShowHistory() error = %v", err)
	}

	if !strings.Contains(out.String(), "[text -> zh]") || !strings.Contains(out.String(), "Hello world") {
		t.Errorf("Unexpected history listing %q", out.String())
	}

	out.Reset()
	if err := show.ArchiveHistory(); err != nil {
		t.Fatalf("ArchiveHistory() error = %v", err)
	}
	if !strings.Contains(out.String(), "History archived to") {
		t.Errorf("Unexpected archive output %q", out.String())
	}
	testutil.AssertFileNotExists(t, historyPath)
}

func TestHistory_Disabled(t *testing.T) {
	_, historyPath := setup(t)

	flags := cli.NewFlags()
	flags.Text = "你好世界"
	flags.NoHistory = true
	p, _ := newTestProcessor(t, flags)

	if err := p.ProcessSingle(context.Background()); err != nil {
		t.Fatalf("ProcessSingle() error = %v", err)
	}

	testutil.AssertFileNotExists(t, historyPath)
}

func TestShowHistory_Empty(t *testing.T) {
	setup(t)

	p, out := newTestProcessor(t, cli.NewFlags())
	if err := p.ShowHistory(context.Background(), 5); err != nil {
		t.Fatalf("ShowHistory() error = %v", err)
	}

	if !strings.Contains(out.String(), "No translations recorded yet.") {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestArchiveHistory_Missing(t *testing.T) {
	setup(t)

	p, _ := newTestProcessor(t, cli.NewFlags())
	if err := p.ArchiveHistory(); err == nil {
		t.Error("Expected error when there is no history to archive")
	}
}
