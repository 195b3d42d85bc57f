// Package main provides the entry point for the Map Composer viewer.
package main

import (
	"context"
	"log"
	"strings"

	"map-composer/internal/config"
	"map-composer/internal/demo"
	"map-composer/internal/export"
	"map-composer/internal/interact"
	"map-composer/internal/render"
	"map-composer/internal/version"
	"map-composer/ui/canvas"
	"map-composer/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const appTitle = "Map Composer"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s", version.String())

	appPrefs := prefs.Load()
	configPath := appPrefs.ConfigPath()
	settings, err := config.Load(configPath)
	if err != nil {
		log.Printf("Using default settings: %v", err)
	}
	style := styleOf(settings)

	a := app.New()
	win := a.NewWindow(appTitle)
	win.Resize(fyne.NewSize(appPrefs.WindowSize(1100, 800)))

	status := widget.NewLabel("")
	host := &canvas.WindowHost{Window: win, Status: status}
	doc := demo.Document(settings)
	ctrl := interact.NewController(doc, host)
	ctrl.ScrollDirection = float64(settings.ScrollZoomDirection)
	if m, ok := interact.ParseMode(appPrefs.String(prefs.KeyMouseMode, "")); ok {
		ctrl.SetMouseMode(m)
	}

	renderer := render.NewRenderer(style, host.FrameReporter())
	exp := export.New(renderer)
	exp.Resolution = settings.PrintResolution
	mc := canvas.NewMapCanvas(ctrl, renderer)
	host.Canvas = mc

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	err = config.Watch(ctx, configPath, func(s config.Settings, err error) {
		if err != nil {
			log.Printf("Settings not reloaded: %v", err)
			return
		}
		st, err := s.Style()
		if err != nil {
			log.Printf("Settings not reloaded: %v", err)
			return
		}
		mc.Do(func(c *interact.Controller) {
			renderer.Style = st
			exp.Resolution = s.PrintResolution
			c.ScrollDirection = float64(s.ScrollZoomDirection)
		})
		log.Printf("Reloaded settings from %s", configPath)
	})
	if err != nil {
		log.Printf("Settings reload disabled: %v", err)
	}

	toolbar := container.NewHBox(
		modeSelect(mc, ctrl.MouseMode(), appPrefs),
		widget.NewCheck("Measure", func(on bool) {
			mc.Do(func(c *interact.Controller) { c.SetMeasuring(on) })
		}),
		widget.NewButton("Remove node", func() {
			mc.Do(func(c *interact.Controller) { c.RemoveLastNode() })
		}),
		widget.NewButton("Delete feature", func() {
			mc.Do(func(c *interact.Controller) { c.DeleteFeature() })
		}),
		widget.NewButton("Whole page", func() {
			mc.Do(func(c *interact.Controller) { c.Document().ZoomToPage() })
		}),
		widget.NewButton("Export...", func() { exportDialog(win, mc, exp) }),
	)

	win.SetContent(container.NewBorder(toolbar, status, nil, nil, mc))
	win.SetCloseIntercept(func() {
		sz := win.Canvas().Size()
		appPrefs.SetWindowSize(sz.Width, sz.Height)
		if err := appPrefs.Save(); err != nil {
			log.Printf("Failed to save preferences: %v", err)
		}
		win.Close()
	})
	win.ShowAndRun()
}

// styleOf returns the render style of s, or the default style when one of
// its colours does not parse.
func styleOf(s config.Settings) render.Style {
	st, err := s.Style()
	if err != nil {
		log.Printf("Using default style: %v", err)
		return render.DefaultStyle()
	}
	return st
}

// modeSelect offers every mouse mode a user can choose.
func modeSelect(mc *canvas.MapCanvas, current interact.Mode, p *prefs.Prefs) *widget.Select {
	var names []string
	for m := interact.ModeZoomIn; m <= interact.ModeModifyPixel; m++ {
		names = append(names, m.String())
	}
	sel := widget.NewSelect(names, func(name string) {
		m, ok := interact.ParseMode(name)
		if !ok {
			return
		}
		mc.Do(func(c *interact.Controller) { c.SetMouseMode(m) })
		p.SetString(prefs.KeyMouseMode, name)
	})
	sel.SetSelected(current.String())
	return sel
}

func exportDialog(win fyne.Window, mc *canvas.MapCanvas, exp *export.Exporter) {
	dialog.ShowFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, win)
			return
		}
		if w == nil {
			return
		}
		defer w.Close()

		format := strings.TrimPrefix(strings.ToLower(w.URI().Extension()), ".")
		var rerr error
		mc.Do(func(c *interact.Controller) {
			img, err := exp.Rasterize(c.Document())
			if err != nil {
				rerr = err
				return
			}
			rerr = export.Encode(w, img, format)
		})
		if rerr != nil {
			log.Printf("Export to %s failed: %v", w.URI(), rerr)
			dialog.ShowError(rerr, win)
			return
		}
		log.Printf("Exported %s", w.URI())
	}, win)
}
