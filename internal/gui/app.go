package gui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/apex/log"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/deeptranslate/internal"
	"codeberg.org/snonux/deeptranslate/internal/glossary"
	"codeberg.org/snonux/deeptranslate/internal/input"
	"codeberg.org/snonux/deeptranslate/internal/translation"
	"codeberg.org/snonux/deeptranslate/internal/workflow"
)

const (
	textModeLabel  = "文本输入"
	imageModeLabel = "图片输入"
)

var (
	imageFilter    = storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg"})
	glossaryFilter = storage.NewExtensionFileFilter([]string{".txt"})
)

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	modeRadio      *widget.RadioGroup
	targetSelect   *widget.Select
	glossaryButton *ttwidget.Button
	glossaryLabel  *widget.Label
	keyEntry       *widget.Entry
	inputEntry     *SubmitEntry
	inputScroll    *container.Scroll
	imageLabel     *widget.Label
	imageButton    *ttwidget.Button
	imagePreview   *ImagePreview
	imageSection   *fyne.Container
	outputEntry    *widget.Entry
	translateBtn   *ttwidget.Button
	statusLabel    *widget.Label
	logViewer      *LogViewer

	// State management. Only touched on the fyne main goroutine.
	imagePath string
	task      *workflow.Task

	glossary     *glossary.Store
	orchestrator *workflow.Orchestrator

	// Notifications, replaceable in tests
	showError   func(err error)
	showWarning func(message string)

	// Configuration
	config *Config
	ctx    context.Context
	cancel context.CancelFunc
}

// Config holds GUI application configuration
type Config struct {
	Resolver   workflow.Resolver
	Translator workflow.Translator
	Recorder   workflow.Recorder

	// APIKey pre-fills the masked key field
	APIKey string
	Target translation.Language

	// GlossaryFile is loaded on startup if set
	GlossaryFile string

	// Dispatch runs a function on the fyne main goroutine. Defaults to fyne.Do.
	Dispatch func(f func())
}

// New creates a new GUI application
func New(config *Config) *Application {
	return newApplication(app.NewWithID("org.codeberg.snonux.deeptranslate"), config)
}

func newApplication(fyneApp fyne.App, config *Config) *Application {
	if config == nil {
		config = &Config{}
	}
	if config.Dispatch == nil {
		config.Dispatch = fyne.Do
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &Application{
		app:      fyneApp,
		config:   config,
		ctx:      ctx,
		cancel:   cancel,
		glossary: glossary.NewStore(),
	}

	a.orchestrator = workflow.New(workflow.Config{
		Resolver:      config.Resolver,
		Translator:    config.Translator,
		Recorder:      config.Recorder,
		Dispatch:      config.Dispatch,
		OnStateChange: a.onStateChange,
		OnFinish:      a.onFinish,
	})

	a.setupUI()

	a.showError = func(err error) {
		dialog.ShowInformation("错误", err.Error(), a.window)
	}
	a.showWarning = func(message string) {
		dialog.ShowInformation("警告", message, a.window)
	}

	if config.GlossaryFile != "" {
		a.loadGlossary(config.GlossaryFile)
	}

	return a
}

// LogHandler returns the apex/log handler feeding the log viewer
func (a *Application) LogHandler() log.Handler {
	return a.logViewer
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("DeepTranslate v%s - 翻译工具", internal.Version))
	a.window.Resize(fyne.NewSize(800, 700))

	// Mode and target language
	a.modeRadio = widget.NewRadioGroup([]string{textModeLabel, imageModeLabel}, a.onModeChanged)
	a.modeRadio.Horizontal = true
	a.modeRadio.Required = true

	a.targetSelect = widget.NewSelect(translation.LanguageNames(), nil)
	a.targetSelect.SetSelected(a.config.Target.String())

	// Glossary loader
	a.glossaryButton = ttwidget.NewButtonWithIcon("上传术语文件", theme.FolderOpenIcon(), a.onLoadGlossary)
	a.glossaryLabel = widget.NewLabel("未加载自定义术语")

	// API key, never echoed
	a.keyEntry = widget.NewPasswordEntry()
	a.keyEntry.SetPlaceHolder("API密钥")
	a.keyEntry.SetText(a.config.APIKey)

	// Text input
	a.inputEntry = NewSubmitEntry()
	a.inputEntry.SetPlaceHolder("请输入要翻译的文本... (Ctrl+Enter 开始翻译)")
	a.inputEntry.Wrapping = fyne.TextWrapWord
	a.inputEntry.SetOnSubmit(a.onTranslate)
	a.inputEntry.SetOnEscape(func() {
		a.window.Canvas().Unfocus()
	})

	// Image input
	a.imageLabel = widget.NewLabel("未选择图片")
	a.imageButton = ttwidget.NewButtonWithIcon("浏览", theme.FileImageIcon(), a.onBrowseImage)
	a.imagePreview = NewImagePreview()
	a.imageSection = container.NewBorder(
		container.NewBorder(nil, nil, nil, a.imageButton, a.imageLabel),
		nil, nil, nil,
		a.imagePreview,
	)
	a.imageSection.Hide()

	// Output
	a.outputEntry = widget.NewMultiLineEntry()
	a.outputEntry.SetPlaceHolder("翻译结果")
	a.outputEntry.Wrapping = fyne.TextWrapWord

	a.translateBtn = ttwidget.NewButtonWithIcon("开始翻译", theme.ConfirmIcon(), a.onTranslate)
	a.translateBtn.Importance = widget.HighImportance

	a.statusLabel = widget.NewLabel("就绪")
	a.logViewer = NewLogViewer()

	form := widget.NewForm(
		widget.NewFormItem("输入方式", a.modeRadio),
		widget.NewFormItem("目标语言", a.targetSelect),
		widget.NewFormItem("术语", container.NewHBox(a.glossaryButton, a.glossaryLabel)),
		widget.NewFormItem("API密钥", a.keyEntry),
	)

	a.inputScroll = container.NewScroll(a.inputEntry)
	inputArea := container.NewStack(a.inputScroll, a.imageSection)

	panels := container.NewHSplit(
		container.NewBorder(widget.NewLabel("原文"), nil, nil, nil, inputArea),
		container.NewBorder(widget.NewLabel("译文"), nil, nil, nil, container.NewScroll(a.outputEntry)),
	)
	panels.SetOffset(0.5)

	content := container.NewVSplit(
		container.NewBorder(
			form,
			container.NewBorder(nil, nil, nil, a.translateBtn, a.statusLabel),
			nil, nil,
			panels,
		),
		a.logViewer,
	)
	content.SetOffset(0.75)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()

	a.modeRadio.SetSelected(textModeLabel)

	a.window.SetOnClosed(func() {
		a.cancel()
	})
}

func (a *Application) setupTooltips() {
	a.glossaryButton.SetToolTip("加载术语文件，每行一条替换规则")
	a.imageButton.SetToolTip("选择PNG或JPEG图片")
	a.translateBtn.SetToolTip("开始翻译 (Ctrl+Enter)")
}

// Run starts the GUI application
func (a *Application) Run() {
	a.window.ShowAndRun()
}

func (a *Application) mode() input.Mode {
	if a.modeRadio.Selected == imageModeLabel {
		return input.ImageMode
	}
	return input.TextMode
}

func (a *Application) onModeChanged(selected string) {
	if selected == imageModeLabel {
		a.inputScroll.Hide()
		a.imageSection.Show()
	} else {
		a.imageSection.Hide()
		a.inputScroll.Show()
	}
}

// onTranslate snapshots the form and starts a translation
func (a *Application) onTranslate() {
	target, err := translation.ParseLanguage(a.targetSelect.Selected)
	if err != nil {
		a.showError(err)
		return
	}

	req := workflow.Request{
		Mode:      a.mode(),
		Text:      a.inputEntry.Text,
		ImagePath: a.imagePath,
		Target:    target,
		Glossary:  a.glossary.Entries(),
		APIKey:    a.keyEntry.Text,
	}

	task, err := a.orchestrator.Start(a.ctx, req)
	if err != nil {
		// The trigger is disabled while running, so this is a double click
		log.WithError(err).Debug("translation request rejected")
		return
	}
	a.task = task
}

func (a *Application) onStateChange(state workflow.State) {
	switch state {
	case workflow.Running:
		a.translateBtn.Disable()
		a.statusLabel.SetText("翻译中...")
	case workflow.Idle:
		a.translateBtn.Enable()
	}
}

func (a *Application) onFinish(outcome workflow.Outcome) {
	if outcome.Err == nil {
		a.outputEntry.SetText(outcome.Text)
		a.statusLabel.SetText("翻译完成")
		return
	}

	a.statusLabel.SetText("翻译失败")
	if outcome.Kind().IsWarning() {
		a.showWarning(outcome.Err.Error())
		return
	}
	a.showError(fmt.Errorf("翻译失败: %w", outcome.Err))
}

func (a *Application) onLoadGlossary() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.showError(err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		a.loadGlossary(path)
	}, a.window)
	d.SetFilter(glossaryFilter)
	d.Show()
}

// loadGlossary replaces the glossary. On failure the previous one is kept.
func (a *Application) loadGlossary(path string) {
	n, err := a.glossary.Load(path)
	if err != nil {
		a.showError(err)
		return
	}

	a.glossaryLabel.SetText(fmt.Sprintf("已加载%d条自定义术语", n))
	log.WithField("entries", n).Info("glossary loaded")
}

func (a *Application) onBrowseImage() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.showError(err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		a.setImagePath(path)
	}, a.window)
	d.SetFilter(imageFilter)
	d.Show()
}

func (a *Application) setImagePath(path string) {
	a.imagePath = strings.TrimSpace(path)
	if a.imagePath == "" {
		a.imageLabel.SetText("未选择图片")
		a.imagePreview.Clear()
		return
	}

	a.imageLabel.SetText(a.imagePath)
	a.imagePreview.Load(a.imagePath)
}
