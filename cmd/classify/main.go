// Command classify classifies organism names without a database.
//
// Names come from positional arguments or from a list file in the sectioned
// wikitext format (-list). Results are printed to stdout as JSON; with
// -enrich every name is expanded into a full card.
//
//	classify -lang fr "Pica pica" "Quercus robur"
//	classify -list garden.wiki -enrich
//
// Exit codes: 0 = success, 1 = error, 2 = usage.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/wikinaturalist-backend/internal/app"
	"github.com/heartmarshall/wikinaturalist-backend/internal/config"
	"github.com/heartmarshall/wikinaturalist-backend/internal/domain"
	"github.com/heartmarshall/wikinaturalist-backend/internal/service/classify"
	organismsvc "github.com/heartmarshall/wikinaturalist-backend/internal/service/organism"
	"github.com/heartmarshall/wikinaturalist-backend/internal/wikitext"
)

var errUsage = errors.New("usage")

type options struct {
	listPath string
	lang     string
	enrich   bool
	timeout  time.Duration
	names    []string
}

type collectionOutput struct {
	domain.Collection
	Results []classify.Result  `json:"results,omitempty"`
	Cards   []*domain.Organism `json:"cards,omitempty"`
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		slog.Error("classify failed", slog.String("error", err.Error()))
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("classify", flag.ContinueOnError)
	fs.StringVar(&opts.listPath, "list", "", "path to a wikitext collection list")
	fs.StringVar(&opts.lang, "lang", "", "language code (default: first configured language)")
	fs.BoolVar(&opts.enrich, "enrich", false, "print full organism cards instead of groups")
	fs.DurationVar(&opts.timeout, "timeout", 5*time.Minute, "overall deadline")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.names = fs.Args()
	return opts, nil
}

func run(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := config.LoadOffline()
	if err != nil {
		return err
	}
	logger := app.NewLogger(cfg.Log)

	lang := opts.lang
	if lang == "" {
		lang = cfg.Classifier.DefaultLanguage()
	}
	if !slices.Contains(cfg.Classifier.Languages, lang) {
		return fmt.Errorf("%w: -lang must be one of %v", errUsage, cfg.Classifier.Languages)
	}

	collections, err := loadCollections(opts)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	stack := app.NewStack(cfg.Wikimedia, cfg.Classifier, cfg.Collections, nil, logger)
	cards := organismsvc.NewService(logger, nil, nil,
		stack.Wikidata, stack.Wikipedia, stack.Classify, cfg.Classifier.ClassifyLang)

	output := make([]collectionOutput, len(collections))
	for i, c := range collections {
		output[i].Collection = c
		if opts.enrich {
			output[i].Cards, err = enrich(ctx, cards, c.Names, lang, cfg.Classifier.Concurrency)
		} else {
			output[i].Results, err = classifyAll(ctx, stack.Classify, c.Names, lang, cfg.Classifier.MaxBatch)
		}
		if err != nil {
			return fmt.Errorf("collection %q: %w", c.Title, err)
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// loadCollections reads the list file, or wraps positional names in a single
// untitled collection.
func loadCollections(opts options) ([]domain.Collection, error) {
	if opts.listPath == "" {
		if len(opts.names) == 0 {
			return nil, fmt.Errorf("%w: provide names or -list", errUsage)
		}
		return []domain.Collection{{Names: opts.names}}, nil
	}

	raw, err := os.ReadFile(opts.listPath)
	if err != nil {
		return nil, fmt.Errorf("read list: %w", err)
	}
	collections := wikitext.Parse(wikitext.FilterLines(string(raw)))
	if len(collections) == 0 {
		return nil, fmt.Errorf("list %s holds no collections", opts.listPath)
	}
	return collections, nil
}

type batchClassifier interface {
	ClassifyBatch(ctx context.Context, names []string, language string) ([]classify.Result, error)
}

// classifyAll classifies names in chunks of at most size, so a long list
// section stays under the batch cap. size <= 0 sends a single batch.
func classifyAll(ctx context.Context, svc batchClassifier, names []string, lang string, size int) ([]classify.Result, error) {
	if size <= 0 {
		size = max(len(names), 1)
	}
	results := make([]classify.Result, 0, len(names))
	for chunk := range slices.Chunk(names, size) {
		res, err := svc.ClassifyBatch(ctx, chunk, lang)
		if err != nil {
			return nil, err
		}
		results = append(results, res...)
	}
	return results, nil
}

func enrich(ctx context.Context, svc *organismsvc.Service, names []string, lang string, limit int) ([]*domain.Organism, error) {
	cards := make([]*domain.Organism, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cards[i] = svc.Build(gctx, name, lang)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cards, nil
}
