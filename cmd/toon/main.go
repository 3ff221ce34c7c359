package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/paularlott/toon"
)

func main() {
	app := &cli.App{
		Name:  "toon",
		Usage: "Convert between JSON and TOON",
		Commands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Encode JSON input as TOON",
				UsageText: "toon encode [options] [file]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "indent",
						Usage: "spaces per indentation level",
						Value: 2,
					},
					&cli.StringFlag{
						Name:    "delimiter",
						Aliases: []string{"d"},
						Usage:   "array delimiter: comma, tab or pipe",
						Value:   "comma",
					},
					&cli.BoolFlag{
						Name:  "length-marker",
						Usage: "emit # before array lengths",
					},
					&cli.BoolFlag{
						Name:  "fold-keys",
						Usage: "fold single-key object chains into dotted keys",
					},
					&cli.IntFlag{
						Name:  "flatten-depth",
						Usage: "max segments in a folded key (0 = unbounded)",
					},
				},
				Action: runEncode,
			},
			{
				Name:      "decode",
				Usage:     "Decode TOON input as JSON",
				UsageText: "toon decode [options] [file]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "indent",
						Usage: "spaces per indentation level",
						Value: 2,
					},
					&cli.StringFlag{
						Name:    "delimiter",
						Aliases: []string{"d"},
						Usage:   "array delimiter: comma, tab or pipe",
						Value:   "comma",
					},
					&cli.BoolFlag{
						Name:  "lenient",
						Usage: "recover from validation errors where possible",
					},
					&cli.BoolFlag{
						Name:  "expand-paths",
						Usage: "expand dotted keys into nested objects",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "indent the JSON output",
					},
				},
				Action: runDecode,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func readInput(c *cli.Context) ([]byte, error) {
	if path := c.Args().First(); path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(os.Stdin)
}

func parseDelimiter(s string) (toon.Delimiter, error) {
	switch s {
	case "comma", ",":
		return toon.Comma, nil
	case "tab", "\t":
		return toon.Tab, nil
	case "pipe", "|":
		return toon.Pipe, nil
	default:
		return toon.Comma, fmt.Errorf("unknown delimiter %q", s)
	}
}

func runEncode(c *cli.Context) error {
	data, err := readInput(c)
	if err != nil {
		return err
	}
	delim, err := parseDelimiter(c.String("delimiter"))
	if err != nil {
		return err
	}

	value, err := toon.ParseJSON(data)
	if err != nil {
		return err
	}

	opts := &toon.EncodeOptions{
		Indent:       c.Int("indent"),
		Delimiter:    delim,
		LengthMarker: c.Bool("length-marker"),
		FlattenDepth: c.Int("flatten-depth"),
	}
	if c.Bool("fold-keys") {
		opts.KeyFolding = toon.FoldSafe
	}

	out, err := toon.EncodeWithOptions(value, opts)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runDecode(c *cli.Context) error {
	data, err := readInput(c)
	if err != nil {
		return err
	}
	delim, err := parseDelimiter(c.String("delimiter"))
	if err != nil {
		return err
	}

	opts := &toon.DecodeOptions{
		Indent:    c.Int("indent"),
		Delimiter: delim,
		Strict:    !c.Bool("lenient"),
	}
	if c.Bool("expand-paths") {
		opts.ExpandPaths = toon.ExpandSafe
	}

	value, err := toon.DecodeWithOptions(string(data), opts)
	if err != nil {
		return err
	}

	out, err := value.MarshalJSON()
	if err != nil {
		return err
	}
	if c.Bool("pretty") {
		var buf bytes.Buffer
		if err := json.Indent(&buf, out, "", "  "); err != nil {
			return err
		}
		out = buf.Bytes()
	}
	fmt.Println(string(out))
	return nil
}
