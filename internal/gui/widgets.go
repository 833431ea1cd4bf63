package gui

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

const noPreviewText = "无预览"

// ImagePreview shows the image selected for OCR with its name and size
// as caption.
type ImagePreview struct {
	widget.BaseWidget

	picture *canvas.Image
	caption *widget.Label
	content *fyne.Container

	path string
}

// NewImagePreview creates an empty preview
func NewImagePreview() *ImagePreview {
	p := &ImagePreview{
		picture: &canvas.Image{FillMode: canvas.ImageFillContain},
		caption: widget.NewLabelWithStyle(noPreviewText, fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
	}
	p.picture.SetMinSize(fyne.NewSize(200, 150))
	p.content = container.NewBorder(nil, p.caption, nil, nil, p.picture)

	p.ExtendBaseWidget(p)
	return p
}

// CreateRenderer implements fyne.Widget
func (p *ImagePreview) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(p.content)
}

// Load previews the PNG or JPEG file at path. Files that are not a
// readable PNG or JPEG leave the picture empty and put the reason in the
// caption; the path is kept so OCR can report the real error.
func (p *ImagePreview) Load(path string) {
	if path == "" {
		p.Clear()
		return
	}
	p.path = path

	caption, err := describeImage(path)
	if err != nil {
		p.picture.File = ""
		p.caption.SetText(err.Error())
		p.picture.Refresh()
		return
	}

	p.picture.File = path
	p.caption.SetText(caption)
	p.picture.Refresh()
}

// Path returns the previewed file
func (p *ImagePreview) Path() string {
	return p.path
}

// Clear removes the picture
func (p *ImagePreview) Clear() {
	p.path = ""
	p.picture.File = ""
	p.picture.Refresh()
	p.caption.SetText(noPreviewText)
}

// describeImage returns "name (WxH)" for a PNG or JPEG file
func describeImage(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("无法打开图片: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", fmt.Errorf("无法解码图片: %w", err)
	}
	if format != "png" && format != "jpeg" {
		return "", fmt.Errorf("不支持的图片格式: %s", format)
	}

	return fmt.Sprintf("%s (%d×%d)", filepath.Base(path), cfg.Width, cfg.Height), nil
}
