package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hesusruiz/texdoc/texdoc"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const defaultConfigFile = "texdoc.yaml"

// convertFile converts one LaTeX file and writes the JSON document, unless dryrun is set.
func convertFile(inputFileName string, outputFileName string, opts texdoc.Options, dryrun bool, sugar *zap.SugaredLogger) error {

	conv := texdoc.NewConverter(opts)
	conv.SetLogger(sugar)

	doc, err := conv.ConvertFile(inputFileName)
	if err != nil && doc == nil {
		return err
	}

	// Report what was degraded during the conversion
	for _, d := range conv.Warnings() {
		fmt.Fprintln(os.Stderr, d.Error())
	}
	if err != nil {
		return err
	}

	if dryrun {
		return nil
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputFileName, out, 0664)
}

// processWatch converts the file again every time it is modified
func processWatch(inputFileName string, outputFileName string, opts texdoc.Options, sugar *zap.SugaredLogger) error {

	var old_timestamp time.Time
	var current_timestamp time.Time

	// Loop forever
	for {

		// Get the modified timestamp of the input file
		info, err := os.Stat(inputFileName)
		if err != nil {
			return err
		}
		current_timestamp = info.ModTime()

		// If current modified timestamp is newer than the previous timestamp, process the file
		if old_timestamp.Before(current_timestamp) {
			old_timestamp = current_timestamp
			fmt.Println("************Converting*************")
			err = convertFile(inputFileName, outputFileName, opts, false, sugar)
			if err != nil && !errors.Is(err, texdoc.ErrValidation) {
				return err
			}
		}

		// Check again in one second
		time.Sleep(1 * time.Second)

	}
}

// loadOptions reads the configuration file and applies the command line flags over it
func loadOptions(c *cli.Context, inputFileName string, sugar *zap.SugaredLogger) (texdoc.Options, error) {

	opts := texdoc.DefaultOptions()

	configFile := c.String("config")
	if len(configFile) == 0 {
		// A texdoc.yaml beside the input file is used when present
		candidate := filepath.Join(filepath.Dir(inputFileName), defaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
		}
	}

	if len(configFile) > 0 {
		var err error
		opts, err = texdoc.LoadOptions(configFile)
		if err != nil {
			return opts, fmt.Errorf("reading configuration %s: %w", configFile, err)
		}
		sugar.Debugw("configuration loaded", "file", configFile)
	}

	if c.IsSet("strict") {
		opts.Strict = c.Bool("strict")
	}
	if c.IsSet("schema") {
		opts.SchemaFile = c.String("schema")
	}
	if c.IsSet("unhandled") {
		opts.MarkUnhandled = c.Bool("unhandled")
	}
	if c.IsSet("subject") {
		opts.Subject = c.String("subject")
	}
	if c.IsSet("template") {
		opts.TemplatePath = c.String("template")
	}

	return opts, nil
}

// process is the main entry point of the program
func process(c *cli.Context) error {

	// Output file name command line parameter
	outputFileName := c.String("output")

	// Dry run
	dryrun := c.Bool("dryrun")

	debug := c.Bool("debug")

	var z *zap.Logger
	var err error

	// Setup the logging system
	if debug {
		z, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
	} else {
		z, err = zap.NewProduction()
		if err != nil {
			panic(err)
		}
	}

	sugar := z.Sugar()
	defer sugar.Sync()

	// Get the input file name
	if !c.Args().Present() {
		return cli.Exit("no input file provided", 2)
	}
	inputFileName := c.Args().First()

	// Generate the output file name
	if len(outputFileName) == 0 {
		ext := filepath.Ext(inputFileName)
		if len(ext) == 0 {
			outputFileName = inputFileName + ".json"
		} else {
			outputFileName = strings.TrimSuffix(inputFileName, ext) + ".json"
		}
	}

	opts, err := loadOptions(c, inputFileName, sugar)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	// Print a message
	if !dryrun {
		fmt.Printf("converting %v and generating %v\n", inputFileName, outputFileName)
	} else {
		fmt.Printf("dry run: converting %v without writing output\n", inputFileName)
	}

	// This is useful for development.
	// If the user specified to watch, loop forever converting the input file when modified
	if c.Bool("watch") {
		return processWatch(inputFileName, outputFileName, opts, sugar)
	}

	err = convertFile(inputFileName, outputFileName, opts, dryrun, sugar)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return nil
}

func main() {

	convertFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "write the JSON document to `FILE` (default is input file name with extension .json)",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "read options from `FILE` (default is texdoc.yaml beside the input, if any)",
		},
		&cli.StringFlag{
			Name:  "schema",
			Usage: "validate the output against the JSON Schema in `FILE` instead of the built-in one",
		},
		&cli.BoolFlag{
			Name:  "strict",
			Usage: "fail when the output does not conform to the schema",
		},
		&cli.BoolFlag{
			Name:  "unhandled",
			Usage: "write a visible marker for each unrecognized command",
		},
		&cli.StringFlag{
			Name:  "subject",
			Usage: "set the subject property of the document",
		},
		&cli.StringFlag{
			Name:  "template",
			Usage: "word processor template the renderer should use",
		},
		&cli.BoolFlag{
			Name:    "dryrun",
			Aliases: []string{"n"},
			Usage:   "do not generate output file, just convert input file",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"d"},
			Usage:   "run in debug mode",
		},
		&cli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "watch the file for changes",
		},
	}

	app := &cli.App{
		Name:     "texdoc",
		Version:  "v0.1.0",
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "Jesus Ruiz",
				Email: "hesus.ruiz@gmail.com",
			},
		},
		Usage:     "convert a LaTeX document into a structured JSON document",
		UsageText: "texdoc convert [options] INPUT_FILE",
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "convert a LaTeX file",
				ArgsUsage: "INPUT_FILE",
				Flags:     convertFlags,
				Action:    process,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

}
