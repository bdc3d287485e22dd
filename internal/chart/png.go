// Genrematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/genrematch

package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/tomtom215/genrematch/internal/recommend"
)

// Image dimensions. Height grows with the number of bars.
const (
	imageWidth   = 10 * vg.Inch
	minHeight    = 6 * vg.Inch
	heightPerBar = 0.3 * vg.Inch
	barWidth     = 0.2 * vg.Inch
	imageDPI     = 96
	maxFileStem  = 80
)

// PNG writes each chart to a file in Dir and prints the path.
type PNG struct {
	Dir string
}

// NewPNG creates a PNG renderer writing into dir.
func NewPNG(dir string) *PNG {
	return &PNG{Dir: dir}
}

// Render implements repl.ChartRenderer. The image goes to a file named
// after the title; w only receives the path.
func (p *PNG) Render(w io.Writer, title string, weights []recommend.TermWeight) error {
	if err := os.MkdirAll(p.Dir, 0o750); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}

	path := filepath.Join(p.Dir, FileName(title))
	f, err := os.Create(path) //nolint:gosec // path is built from a sanitized file name
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}

	if err := WritePNG(f, title, weights); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close chart file: %w", err)
	}

	_, err = fmt.Fprintf(w, "Chart saved to %s\n", path)
	return err
}

// WritePNG draws the bar chart as a PNG image. The first weight is drawn
// at the top.
func WritePNG(w io.Writer, title string, weights []recommend.TermWeight) error {
	if len(weights) == 0 {
		return ErrNoWeights
	}

	p := plot.New()
	p.Title.Text = "TF-IDF for " + title
	p.X.Label.Text = "TF-IDF Value"
	p.X.Min = 0

	// Nominal Y values run bottom-up; reverse so the first term is on top.
	n := len(weights)
	values := make(plotter.Values, n)
	labels := make([]string, n)
	for i, tw := range weights {
		values[n-1-i] = tw.Weight
		labels[n-1-i] = tw.Term
	}

	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return fmt.Errorf("build bar chart: %w", err)
	}
	bars.Horizontal = true
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalY(labels...)

	height := max(minHeight, heightPerBar*vg.Length(n))
	canvas := vgimg.NewWith(vgimg.UseWH(imageWidth, height), vgimg.UseDPI(imageDPI))
	p.Draw(draw.New(canvas))

	if _, err := (vgimg.PngCanvas{Canvas: canvas}).WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// FileName turns a title into a safe PNG file name.
func FileName(title string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash && b.Len() > 0 {
			b.WriteByte('-')
			lastDash = true
		}
	}
	stem := strings.TrimSuffix(b.String(), "-")
	if r := []rune(stem); len(r) > maxFileStem {
		stem = strings.TrimSuffix(string(r[:maxFileStem]), "-")
	}
	if stem == "" {
		stem = "movie"
	}
	return stem + ".png"
}
