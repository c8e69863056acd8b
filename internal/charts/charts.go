// Package charts renders hand statistics as interactive go-echarts pages.
package charts

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/MTG-Drawer/internal/stats"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Title      string // Page title
	Width      string // Chart width (e.g., "600px")
	Height     string // Chart height (e.g., "450px")
	Theme      string // Chart theme
	ShowLegend bool   // Show legend
	ShowLabels bool   // Show "name: value" labels on slices
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Title:      "Hand Statistics",
		Width:      "600px",
		Height:     "450px",
		Theme:      "light",
		ShowLegend: true,
		ShowLabels: true,
	}
}

// RenderDistributionPie builds a pie chart with one slice per bucket,
// colored with the bucket's display color. Zero buckets stay in the legend.
func RenderDistributionPie(title string, dist stats.Distribution, config ChartConfig) *charts.Pie {
	pie := charts.NewPie()

	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  config.Width,
			Height: config.Height,
			Theme:  config.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d total", dist.Total()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(config.ShowLegend),
			Top:  "bottom",
		}),
	)

	data := make([]opts.PieData, len(dist))
	for i, bucket := range dist {
		data[i] = opts.PieData{
			Name:      bucket.Name,
			Value:     bucket.Value,
			ItemStyle: &opts.ItemStyle{Color: bucket.Color},
		}
	}

	pie.AddSeries(title, data).
		SetSeriesOptions(
			charts.WithPieChartOpts(opts.PieChart{
				Radius: "60%",
			}),
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(config.ShowLabels),
				Formatter: "{b}: {c}",
			}),
		)

	return pie
}

// RenderStatsPage writes an HTML page with the color and type pies of snap.
func RenderStatsPage(w io.Writer, snap stats.Snapshot, config ChartConfig) error {
	page := components.NewPage()
	page.PageTitle = config.Title

	subtitle := fmt.Sprintf("(%s, %d hands)", snap.Scope, snap.TotalHands)
	page.AddCharts(
		RenderDistributionPie("Colors "+subtitle, snap.Colors, config),
		RenderDistributionPie("Types "+subtitle, snap.Types, config),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

// StatsPageHTML renders the stats page into memory.
func StatsPageHTML(snap stats.Snapshot, config ChartConfig) ([]byte, error) {
	var buf bytes.Buffer
	if err := RenderStatsPage(&buf, snap, config); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteStatsPage renders the stats page to outputPath.
func WriteStatsPage(snap stats.Snapshot, config ChartConfig, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	return RenderStatsPage(f, snap, config)
}

// OpenInBrowser opens a local HTML file in the default browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}
	return OpenURL(absPath)
}

// OpenURL opens a URL or file path with the platform's default handler.
func OpenURL(target string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	case "linux":
		cmd = exec.Command("xdg-open", target)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
