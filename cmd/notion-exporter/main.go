package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/dotneet/notion-exporter/internal/assets"
	"github.com/dotneet/notion-exporter/internal/config"
	"github.com/dotneet/notion-exporter/internal/exporter"
	"github.com/dotneet/notion-exporter/internal/logger"
	"github.com/dotneet/notion-exporter/internal/markdown"
	"github.com/dotneet/notion-exporter/internal/notion"
	"github.com/dotneet/notion-exporter/internal/storage"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return err
	}

	// Flags override the file.
	if out := cmd.String("output"); out != "" {
		cfg.Export.OutputDir = out
	}
	if level := cmd.String("log-level"); level != "" {
		cfg.LogLevel = level
	}
	if cmd.Bool("no-recursive") {
		cfg.Export.Recursive = false
	}
	if cmd.Bool("skip-images") {
		cfg.Export.DownloadImages = false
	}

	id := cmd.String("id")
	if id == "" {
		return errors.New("page or database id is required (--id or NOTION_PAGE_ID)")
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := notion.NewClient(cfg.Token, log)
	if err != nil {
		return err
	}
	files, err := storage.NewFS(cfg.Export.OutputDir)
	if err != nil {
		return err
	}

	var images markdown.ImageFetcher
	if cfg.Export.DownloadImages {
		images = assets.NewDownloader(files, log)
	}

	exp := exporter.New(client, files, log, exporter.Options{
		Recursive: cfg.Export.Recursive,
		Images:    images,
	})

	var results []exporter.Result
	if filename := cmd.String("filename"); filename != "" {
		results, err = exp.ExportPageAs(ctx, id, filename)
	} else {
		results, err = exp.Export(ctx, id)
	}
	if err != nil {
		return err
	}

	summarize(log, results)
	return nil
}

// summarize logs the final counts and one error line per failed page.
func summarize(log *logrus.Logger, results []exporter.Result) {
	var exported, skipped, failed int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failed++
			log.WithError(r.Err).WithFields(logrus.Fields{
				"page_id": r.PageID,
				"title":   r.Title,
			}).Error("Export failed")
		case r.Skipped:
			skipped++
		default:
			exported++
		}
	}
	log.WithFields(logrus.Fields{
		"exported": exported,
		"skipped":  skipped,
		"failed":   failed,
	}).Info("Export completed")
}

func main() {
	cmd := &cli.Command{
		Name:   "notion-exporter",
		Usage:  "Export Notion pages and databases to Markdown files",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "id",
				Usage:   "Notion page or database id to export",
				Sources: cli.EnvVars("NOTION_PAGE_ID"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Directory to write Markdown files to",
				Sources: cli.EnvVars("OUTPUT_DIRECTORY"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				Sources: cli.EnvVars("NOTION_EXPORTER_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "filename",
				Usage: "Write the root page under this filename instead of its title",
			},
			&cli.BoolFlag{
				Name:  "no-recursive",
				Usage: "Export only the requested page, not its children",
			},
			&cli.BoolFlag{
				Name:  "skip-images",
				Usage: "Keep remote image URLs instead of downloading images",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (trace, debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Troubleshooting:")
		fmt.Fprintln(os.Stderr, "  - Check that NOTION_TOKEN is set to a valid integration token")
		fmt.Fprintln(os.Stderr, "  - Check that the page or database is shared with the integration")
		fmt.Fprintln(os.Stderr, "  - Check connectivity to api.notion.com")
		os.Exit(1)
	}
}
