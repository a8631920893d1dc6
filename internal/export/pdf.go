// Copyright 2026 The Plaintes Authors
// SPDX-License-Identifier: MIT

package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

// DefaultImageTimeout bounds a document image download.
const DefaultImageTimeout = 10 * time.Second

// DefaultPlaceholder replaces empty field values.
const DefaultPlaceholder = "Non renseigné"

// Table is a simple grid of text cells.
type Table struct {
	Headers []string
	Rows    [][]string
	// Widths are column weights; nil means equal columns.
	Widths []float64
}

// Block is one section of a document. Each non-empty part is rendered in
// this order: heading, text, fields, image, lines, table.
type Block struct {
	Heading  string
	Text     string
	Fields   Row
	ImageURL string
	Lines    []string
	Table    *Table
}

// Document is a paginated report.
type Document struct {
	Title    string
	Subtitle string
	Blocks   []Block
	Footer   string
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithImageFetcher sets the fetcher used for block images.
func WithImageFetcher(f ImageFetcher) RendererOption {
	return func(r *Renderer) { r.fetcher = f }
}

// WithImageTimeout sets the image download timeout.
func WithImageTimeout(d time.Duration) RendererOption {
	return func(r *Renderer) { r.timeout = d }
}

// WithPlaceholder sets the text rendered for empty field values.
func WithPlaceholder(s string) RendererOption {
	return func(r *Renderer) { r.placeholder = s }
}

// WithClock sets the clock used for the PDF creation date.
func WithClock(now func() time.Time) RendererOption {
	return func(r *Renderer) { r.now = now }
}

// Renderer produces PDF documents.
type Renderer struct {
	fetcher     ImageFetcher
	timeout     time.Duration
	placeholder string
	now         func() time.Time
}

// NewRenderer creates a Renderer. Without options it fetches images over
// HTTP with DefaultImageTimeout.
func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		fetcher:     &HTTPImageFetcher{},
		timeout:     DefaultImageTimeout,
		placeholder: DefaultPlaceholder,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

const (
	marginMM   = 14.0
	lineHeight = 6.0
	fontFamily = "Helvetica"
)

// Render lays doc out on A4 pages. Images that cannot be fetched or decoded
// are left out; the rest of the document still renders.
func (r *Renderer) Render(ctx context.Context, doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(marginMM, 20, marginMM)
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetCreationDate(r.now())
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("plaintes", true)
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(150, 150, 150)
		if doc.Footer != "" {
			pdf.CellFormat(0, 4, tr(doc.Footer), "", 1, "C", false, 0, "")
		}
		pdf.CellFormat(0, 4, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 18)
	pdf.SetTextColor(30, 30, 30)
	pdf.MultiCell(0, 9, tr(doc.Title), "", "L", false)
	if doc.Subtitle != "" {
		pdf.SetFont(fontFamily, "", 11)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, lineHeight, tr(doc.Subtitle), "", "L", false)
	}
	pdf.Ln(4)

	for i, b := range doc.Blocks {
		r.renderBlock(ctx, pdf, tr, i, b)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("render pdf block %d: %w", i, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) renderBlock(ctx context.Context, pdf *fpdf.Fpdf, tr func(string) string, idx int, b Block) {
	if b.Heading != "" {
		pdf.SetFont(fontFamily, "B", 13)
		pdf.SetTextColor(44, 62, 80)
		pdf.MultiCell(0, 8, tr(b.Heading), "", "L", false)
	}
	pdf.SetFont(fontFamily, "", 11)
	pdf.SetTextColor(50, 50, 50)

	if b.Text != "" {
		pdf.MultiCell(0, lineHeight, tr(b.Text), "", "L", false)
	}

	if len(b.Fields) > 0 {
		for _, f := range b.Fields {
			val := strings.TrimSpace(FormatValue(f.Value))
			if val == "" {
				val = r.placeholder
			}
			pdf.SetFont(fontFamily, "B", 11)
			pdf.CellFormat(50, lineHeight, tr(f.Key+" :"), "", 0, "L", false, 0, "")
			pdf.SetFont(fontFamily, "", 11)
			pdf.MultiCell(0, lineHeight, tr(val), "", "L", false)
		}
	}

	if b.ImageURL != "" {
		r.renderImage(ctx, pdf, fmt.Sprintf("block-%d", idx), b.ImageURL)
	}

	for _, line := range b.Lines {
		pdf.MultiCell(0, lineHeight, tr(line), "", "L", false)
	}

	if b.Table != nil && len(b.Table.Headers) > 0 {
		renderTable(pdf, tr, b.Table)
	}
	pdf.Ln(4)
}

func (r *Renderer) renderImage(ctx context.Context, pdf *fpdf.Fpdf, name, url string) {
	if r.fetcher == nil {
		return
	}
	fctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	data, err := r.fetcher.Fetch(fctx, url)
	if err != nil {
		slog.Debug("image omitted from pdf", "url", url, "error", err)
		return
	}
	typ, cfg, err := imageType(data)
	if err != nil || cfg.Width == 0 || cfg.Height == 0 {
		slog.Debug("image omitted from pdf", "url", url, "error", err)
		return
	}

	opts := fpdf.ImageOptions{ImageType: typ}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if pdf.Error() != nil {
		return
	}

	pageW, _ := pdf.GetPageSize()
	maxW := pageW - 2*marginMM
	w := maxW * 0.6
	h := w * float64(cfg.Height) / float64(cfg.Width)
	if h > 100 {
		h = 100
		w = h * float64(cfg.Width) / float64(cfg.Height)
	}
	pdf.ImageOptions(name, marginMM, pdf.GetY()+2, w, h, true, opts, 0, "")
	pdf.Ln(2)
}

func renderTable(pdf *fpdf.Fpdf, tr func(string) string, t *Table) {
	pageW, pageH := pdf.GetPageSize()
	usable := pageW - 2*marginMM
	widths := columnWidths(t, usable)
	const rowH = 7.0

	header := func() {
		pdf.SetFont(fontFamily, "B", 10)
		pdf.SetFillColor(41, 128, 185)
		pdf.SetTextColor(255, 255, 255)
		for i, h := range t.Headers {
			pdf.CellFormat(widths[i], rowH, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont(fontFamily, "", 10)
		pdf.SetTextColor(40, 40, 40)
	}

	header()
	for _, row := range t.Rows {
		if pdf.GetY()+rowH > pageH-25 {
			pdf.AddPage()
			header()
		}
		for i := range t.Headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			align := "L"
			if i > 0 && looksNumeric(cell) {
				align = "R"
			}
			pdf.CellFormat(widths[i], rowH, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
}

func columnWidths(t *Table, usable float64) []float64 {
	n := len(t.Headers)
	out := make([]float64, n)
	if len(t.Widths) == n {
		var sum float64
		for _, w := range t.Widths {
			sum += w
		}
		if sum > 0 {
			for i, w := range t.Widths {
				out[i] = usable * w / sum
			}
			return out
		}
	}
	for i := range out {
		out[i] = usable / float64(n)
	}
	return out
}

func looksNumeric(s string) bool {
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && c != '.' && c != ',' && c != '-' {
			return false
		}
	}
	return true
}
