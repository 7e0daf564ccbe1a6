package main

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/gifalloc"
	"github.com/bodgit/gifalloc/assemble"
	"github.com/bodgit/gifalloc/pal"
	"github.com/bodgit/gifalloc/palettedb"
	"github.com/urfave/cli/v2"
)

const defaultDB = "gifalloc.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func colorMap(db *palettedb.DB, name string) (*gifalloc.ColorMap, error) {
	cm, err := db.Get(name)
	if err != nil {
		return nil, err
	}
	if cm == nil {
		return nil, fmt.Errorf("no palette named %q", name)
	}
	return cm, nil
}

func importPalette(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger := newLogger(c)

	db, err := palettedb.Open(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	n, err := db.ImportPAL(c.Args().Get(0), c.Args().Get(1))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	logger.Printf("Imported %d palette(s) from \"%s\"\n", n, c.Args().Get(1))

	return nil
}

func exportPalette(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	db, err := palettedb.Open(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	cm, err := colorMap(db, c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer cm.Free()

	f, err := os.Create(c.Args().Get(1))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer f.Close()

	if _, err := pal.Write(f, cm); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func unionPalettes(c *cli.Context) error {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	logger := newLogger(c)

	db, err := palettedb.Open(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	a, err := colorMap(db, c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer a.Free()

	b, err := colorMap(db, c.Args().Get(1))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer b.Free()

	union := gifalloc.UnionColorMap
	if c.Bool("strict") {
		union = gifalloc.UnionColorMapStrict
	}

	u, trans, err := union(a, b)
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer u.Free()

	for i, t := range trans {
		fmt.Printf("%d\t%d\n", i, t)
	}

	name := c.Args().Get(0) + "+" + c.Args().Get(1)
	if _, err := db.Put(name, u); err != nil {
		return cli.NewExitError(err, 1)
	}
	logger.Printf("Stored %d colors as \"%s\"\n", u.ColorCount, name)

	return nil
}

func assembleFrames(c *cli.Context) (err error) {
	if c.NArg() < 2 {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}

	db, err := palettedb.Open(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	a := assemble.New(db, newLogger(c),
		assemble.Workers(c.Int("workers")),
		assemble.Colors(c.Int("colors")),
		assemble.Delay(c.Int("delay")),
		assemble.Dither(c.Bool("dither")),
		assemble.Strict(c.Bool("strict")),
	)

	g, err := a.Scan(c.Args().Get(0))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer g.Free()

	f, err := os.Create(c.Args().Get(1))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cli.NewExitError(cerr, 1)
		}
	}()

	if err := assemble.Encode(f, g, c.Int("loop")); err != nil {
		return cli.NewExitError(err, 1)
	}

	return nil
}

func listPalettes(c *cli.Context) error {
	db, err := palettedb.Open(c.String("db"))
	if err != nil {
		return cli.NewExitError(err, 1)
	}
	defer db.Close()

	names, err := db.Names()
	if err != nil {
		return cli.NewExitError(err, 1)
	}

	for _, name := range names {
		fmt.Println(name)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "gifalloc"
	app.Usage = "GIF color map and frame utility"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"GIFALLOC_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to palette database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "import",
			Usage:     "Import a RIFF palette file",
			ArgsUsage: "NAME FILE",
			Action:    importPalette,
		},
		{
			Name:      "export",
			Usage:     "Export a stored palette as a RIFF palette file",
			ArgsUsage: "NAME FILE",
			Action:    exportPalette,
		},
		{
			Name:        "union",
			Usage:       "Merge two stored palettes",
			Description: "The translation table is printed and the result is stored as A+B.",
			ArgsUsage:   "A B",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "strict",
					Usage: "share slots between repeated colors",
				},
			},
			Action: unionPalettes,
		},
		{
			Name:      "assemble",
			Usage:     "Build an animated GIF from a directory of images",
			ArgsUsage: "DIRECTORY FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "colors",
					Value: 256,
					Usage: "maximum colors per frame",
				},
				&cli.IntFlag{
					Name:  "delay",
					Value: 10,
					Usage: "delay between frames in hundredths of a second",
				},
				&cli.BoolFlag{
					Name:  "dither",
					Usage: "dither quantized frames",
				},
				&cli.BoolFlag{
					Name:  "strict",
					Usage: "share slots between repeated colors",
				},
				&cli.IntFlag{
					Name:  "workers",
					Value: 10,
					Usage: "number of decoding workers",
				},
				&cli.IntFlag{
					Name:  "loop",
					Usage: "loop count, 0 loops forever and -1 plays once",
				},
			},
			Action: assembleFrames,
		},
		{
			Name:   "list",
			Usage:  "List stored palette names",
			Action: listPalettes,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
