package ui

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar shows progress over a known number of items on Err.
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a bar over total items named unit ("marcas").
func NewProgressBar(total int, unit string) *ProgressBar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(Err),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString(unit),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(Err) }),
	)
	return &ProgressBar{bar: bar}
}

// Step moves the bar to done and labels it with the item just processed.
func (p *ProgressBar) Step(done int, label string) {
	p.bar.Describe(fmt.Sprintf("%-24.24s", label))
	_ = p.bar.Set(done)
}

// Finish completes the bar.
func (p *ProgressBar) Finish() {
	_ = p.bar.Finish()
}

// Spin runs fn behind a spinner showing message. With quiet set, fn runs
// without any output.
func Spin(message string, quiet bool, fn func() error) error {
	if quiet {
		return fn()
	}
	s := spinner.New(spinner.CharSets[11], 120*time.Millisecond, spinner.WithWriter(Err))
	s.Suffix = " " + message
	s.Start()
	defer s.Stop()
	return fn()
}
