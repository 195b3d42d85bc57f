// Command mapexport renders the sample composition to an image file without
// opening a window.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"map-composer/internal/config"
	"map-composer/internal/demo"
	"map-composer/internal/export"
	"map-composer/internal/render"
	"map-composer/internal/version"
)

type stderrReporter struct{}

func (stderrReporter) LogException(context string, err error) { log.Printf("%s: %v", context, err) }
func (stderrReporter) ShowFeedback(msg string)                { fmt.Fprintln(os.Stderr, msg) }

func main() {
	configPath := flag.String("config", "", "Settings file (TOML)")
	out := flag.String("out", "map.png", "Output image; the extension picks the format")
	dpi := flag.Int("dpi", 0, "Resolution override in dots per inch")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println(version.String())

	settings := config.Default()
	if *configPath != "" {
		s, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load settings: %v\n", err)
			os.Exit(1)
		}
		settings = s
	}
	style, err := settings.Style()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bad settings: %v\n", err)
		os.Exit(1)
	}

	exp := export.New(render.NewRenderer(style, stderrReporter{}))
	exp.Resolution = settings.PrintResolution
	if *dpi > 0 {
		exp.Resolution = *dpi
	}

	doc := demo.Document(settings)
	if err := exp.SaveToImage(doc, *out); err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		fmt.Fprintf(os.Stderr, "Supported formats: %s\n", strings.Join(export.Formats(), ", "))
		os.Exit(1)
	}
	fmt.Printf("Wrote %s at %d dpi (%.0f x %.0f pt page)\n", *out, exp.Resolution, doc.PageWidth, doc.PageHeight)
}
