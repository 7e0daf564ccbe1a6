package assemble

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register decoders
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/bodgit/gifalloc"
	"github.com/bodgit/gifalloc/frame"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var errNoImages = errors.New("assemble: no images found")

type job struct {
	index int
	path  string
}

type decoded struct {
	job
	image *image.Paletted
}

func isImage(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".bmp", ".gif", ".jpeg", ".jpg", ".png", ".tif", ".tiff", ".webp":
		return true
	}
	return false
}

func (a *Assembler) findImages(ctx context.Context, dir string) (<-chan job, <-chan error, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan job)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)

		var i int
		for _, e := range entries {
			// Ignore any hidden files or directories
			if e.Name()[0] == '.' || !e.Type().IsRegular() || !isImage(e.Name()) {
				continue
			}

			select {
			case out <- job{index: i, path: filepath.Join(dir, e.Name())}:
			case <-ctx.Done():
				errc <- errors.New("scan cancelled")
				return
			}
			i++
		}
	}()
	return out, errc, nil
}

func decodeFile(file string) (image.Image, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	return m, nil
}

func (a *Assembler) imageWorker(ctx context.Context, in <-chan job, out chan<- decoded, wg *sync.WaitGroup) <-chan error {
	errc := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(errc)
		for j := range in {
			m, err := decodeFile(j.path)
			if err != nil {
				errc <- err
				return
			}

			select {
			case out <- decoded{job: j, image: frame.Quantize(m, a.opts.Colors, a.opts.Dither)}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return errc
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func (a *Assembler) decodeAll(dir string) ([]decoded, error) {
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error

	jobs, errc, err := a.findImages(ctx, dir)
	if err != nil {
		return nil, err
	}
	errcList = append(errcList, errc)

	results := make(chan decoded)
	var wg sync.WaitGroup
	for i := 0; i < a.workers; i++ {
		errcList = append(errcList, a.imageWorker(ctx, jobs, results, &wg))
	}

	var frames []decoded
	done := make(chan struct{})
	go func() {
		defer close(done)
		for r := range results {
			frames = append(frames, r)
		}
	}()

	err = waitForPipeline(errcList...)
	cancelFunc()
	wg.Wait()
	close(results)
	<-done

	if err != nil {
		return nil, err
	}

	sort.Slice(frames, func(i, j int) bool { return frames[i].index < frames[j].index })

	return frames, nil
}

// Scan decodes every image in dir, in name order, and returns them as the
// frames of a new file.
func (a *Assembler) Scan(dir string) (*gifalloc.File, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	frames, err := a.decodeAll(dir)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, errNoImages
	}

	var width, height int
	for _, fr := range frames {
		b := fr.image.Bounds()
		width, height = max(width, b.Max.X), max(height, b.Max.Y)
	}

	f := gifalloc.NewFile(width, height, nil)
	m := newMerger(f, a.opts)

	for _, fr := range frames {
		name := filepath.Base(fr.path)

		if a.db != nil {
			if err := a.record(name, fr.image); err != nil {
				f.Free()
				return nil, err
			}
		}

		shared, err := m.add(fr.image)
		if err != nil {
			f.Free()
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if !shared {
			a.logger.Printf("%s keeps a local color map\n", name)
		}

		if err := a.annotate(f.SavedImages[len(f.SavedImages)-1], name); err != nil {
			f.Free()
			return nil, err
		}
	}
	f.ColorResolution = f.ColorMap.BitsPerPixel

	a.logger.Printf("Assembled %d frames from \"%s\" with %d global colors\n", f.ImageCount(), dir, f.ColorMap.ColorCount)

	if a.db != nil {
		if _, err := a.db.Put(filepath.Base(dir), f.ColorMap); err != nil {
			f.Free()
			return nil, err
		}
	}

	return f, nil
}

func (a *Assembler) record(name string, pm *image.Paletted) error {
	cm, err := frame.ColorMapOf(pm.Palette)
	if err != nil {
		return err
	}
	defer cm.Free()

	_, err = a.db.Put(name, cm)
	return err
}

// Truncates name to fit one data sub-block without splitting a rune
func comment(name string) []byte {
	b := []byte(name)
	if len(b) <= 255 {
		return b
	}
	n := 255
	for n > 0 && !utf8.RuneStart(b[n]) {
		n--
	}
	return b[:n]
}

func (a *Assembler) annotate(img *gifalloc.SavedImage, name string) error {
	gce := []byte{0x00, byte(a.delay), byte(a.delay >> 8), 0x00}
	if err := img.AddExtensionBlock(gifalloc.GraphicsExtFuncCode, gce); err != nil {
		return err
	}

	return img.AddExtensionBlock(gifalloc.CommentExtFuncCode, comment(name))
}
