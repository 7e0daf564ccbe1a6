/*
Package assemble builds an animated GIF file from a directory of images.

Images are decoded and quantized concurrently, then appended to a
gifalloc.File in name order. Each frame's palette is folded into the global
color map where possible; frames that cannot share it keep a local color
map.
*/
package assemble

import (
	"io/ioutil"
	"log"

	"github.com/bodgit/gifalloc/frame"
	"github.com/bodgit/gifalloc/palettedb"
)

const (
	defaultWorkers = 10
	defaultDelay   = 10
)

type Assembler struct {
	db      *palettedb.DB
	logger  *log.Logger
	workers int
	delay   int
	opts    frame.Options
}

type Option func(*Assembler)

func Workers(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.workers = n
		}
	}
}

// Colors sets the color budget of each frame.
func Colors(n int) Option {
	return func(a *Assembler) {
		a.opts.Colors = frame.ColorBudget(n)
	}
}

func Delay(cs int) Option {
	return func(a *Assembler) {
		a.delay = cs
	}
}

// Dither enables Floyd-Steinberg dithering when a frame is quantized.
func Dither(dither bool) Option {
	return func(a *Assembler) {
		a.opts.Dither = dither
	}
}

// Strict merges palettes with gifalloc.UnionColorMapStrict.
func Strict(strict bool) Option {
	return func(a *Assembler) {
		a.opts.Strict = strict
	}
}

// New returns an Assembler. db may be nil, otherwise every frame palette
// and the resulting global palette are recorded in it.
func New(db *palettedb.DB, logger *log.Logger, options ...Option) *Assembler {
	a := &Assembler{
		db:      db,
		logger:  logger,
		workers: defaultWorkers,
		delay:   defaultDelay,
		opts: frame.Options{
			Colors: 256,
		},
	}
	if a.logger == nil {
		a.logger = log.New(ioutil.Discard, "", 0)
	}
	for _, o := range options {
		o(a)
	}
	return a
}
