package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	LogLevel   string
	ListModels bool

	// Headless translation
	Text         string
	ImagePath    string
	Target       string
	GlossaryFile string
	OutputFile   string

	// Backends
	Model     string
	OCREngine string

	// History
	History        int
	ArchiveHistory bool
	NoHistory      bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:  "info",
		Target:    "zh",
		Model:     "deepseek-chat",
		OCREngine: "tesseract",
	}
}

// Headless reports whether a single translation was requested on the
// command line instead of the GUI.
func (f *Flags) Headless() bool {
	return f.Text != "" || f.ImagePath != ""
}
