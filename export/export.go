// Package export runs the export pipeline: it extracts markdown from an
// editor, renders it, sanitizes and trims the rendered tree, serializes the
// result and writes it to a sink.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/mdclip"
	"github.com/fwojciec/mdclip/goquery"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the number of documents rendered at once by
// ExportAll.
const DefaultConcurrency = 4

// Exporter orchestrates exports.
type Exporter struct {
	Renderer  mdclip.Renderer
	Headings  mdclip.HeadingIndex
	Converter mdclip.Converter
	Sink      mdclip.Sink

	// Exports records completed exports. Optional.
	Exports mdclip.ExportService

	// Settings defaults to mdclip.DefaultSettings.
	Settings *mdclip.Settings

	// Logger reports failures that do not fail an export. Optional.
	Logger *slog.Logger

	Concurrency int
}

// Request identifies what to export.
type Request struct {
	Editor mdclip.Editor

	// Policy is the name of the export policy.
	Policy string

	// Transform overrides the policy's default transform when set.
	Transform mdclip.Transform
}

// Result is the outcome of a single export.
type Result struct {
	Policy    string
	Transform mdclip.Transform
	Path      string
	Text      string
}

// Characters returns the number of characters exported.
func (r *Result) Characters() int {
	return utf8.RuneCountInString(r.Text)
}

// Batch is the outcome of ExportAll.
type Batch struct {
	Results []*Result

	// Text is the text written to the sink.
	Text string
}

// Characters returns the number of characters written.
func (b *Batch) Characters() int {
	return utf8.RuneCountInString(b.Text)
}

// Policies returns the policies that apply to the editor state. A nil
// editor returns every policy.
func (e *Exporter) Policies(ed mdclip.Editor) []mdclip.Policy {
	var policies []mdclip.Policy
	for _, p := range mdclip.Policies(e.settings()) {
		if ed == nil || p.Applies == nil || p.Applies(ed) {
			policies = append(policies, p)
		}
	}
	return policies
}

// Export renders req and writes the result to the sink. Nothing is written
// when rendering fails.
func (e *Exporter) Export(ctx context.Context, req Request) (*Result, error) {
	res, err := e.Render(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := e.Sink.WriteText(ctx, res.Text); err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}

	e.record(ctx, res)
	return res, nil
}

// ExportAll renders several requests concurrently and writes their results
// to the sink in request order, separated by a blank line. If any request
// fails nothing is written.
func (e *Exporter) ExportAll(ctx context.Context, reqs []Request) (*Batch, error) {
	if len(reqs) == 0 {
		return nil, mdclip.Errorf(mdclip.EINVALID, "nothing to export")
	}

	results := make([]*Result, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency())
	for i, req := range reqs {
		g.Go(func() error {
			res, err := e.Render(gctx, req)
			if err != nil {
				return withPath(req, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	texts := make([]string, len(results))
	for i, res := range results {
		texts[i] = res.Text
	}
	batch := &Batch{Results: results, Text: strings.Join(texts, "\n\n")}

	if err := e.Sink.WriteText(ctx, batch.Text); err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}

	for _, res := range results {
		e.record(ctx, res)
	}
	return batch, nil
}

// Render runs the pipeline for req without writing the result.
func (e *Exporter) Render(ctx context.Context, req Request) (*Result, error) {
	if req.Editor == nil {
		return nil, mdclip.Errorf(mdclip.ENOTFOUND, "no active document")
	}

	settings := e.settings()
	policy, err := mdclip.FindPolicy(settings, req.Policy)
	if err != nil {
		return nil, err
	}
	transform := req.Transform
	if transform == "" {
		transform = policy.Transform
	}

	rules, err := goquery.RulesFromSettings(settings)
	if err != nil {
		return nil, err
	}

	markdown, err := e.extract(policy.Source, req.Editor)
	if err != nil {
		return nil, err
	}

	html, err := e.Renderer.Render(ctx, markdown, req.Editor.Path())
	if err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	tree, err := goquery.Parse(html)
	if err != nil {
		return nil, err
	}
	tree.Sanitize(rules)

	if policy.Source == mdclip.SourceHeading && !settings.IncludeHeadingElement {
		tree.RemoveLeadingHeading()
	}

	if policy.Section != nil {
		r, err := tree.Locate(*policy.Section)
		if err != nil {
			return nil, err
		}
		tree.Prune(r)
	}

	text, err := e.serialize(tree, transform, settings)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, mdclip.Errorf(mdclip.EINVALID, "selection was empty")
	}

	return &Result{
		Policy:    policy.Name,
		Transform: transform,
		Path:      req.Editor.Path(),
		Text:      text,
	}, nil
}

// extract returns the markdown the policy source reads from the editor.
func (e *Exporter) extract(source mdclip.Source, ed mdclip.Editor) (string, error) {
	switch source {
	case mdclip.SourceSelection:
		selection := ed.Selection()
		if selection == "" {
			return "", mdclip.Errorf(mdclip.ENOTFOUND, "selection was empty")
		}
		return selection, nil

	case mdclip.SourceHeading:
		headings, err := e.Headings.Headings(ed.Text())
		if err != nil {
			return "", fmt.Errorf("index headings: %w", err)
		}
		r, err := mdclip.FindHeadingSection(headings, ed.CursorLine(), ed)
		if err != nil {
			return "", err
		}
		return ed.Range(
			mdclip.Position{Line: r.Start},
			mdclip.Position{Line: r.End, Ch: len(ed.Line(r.End))},
		), nil

	default:
		return ed.Text(), nil
	}
}

func (e *Exporter) serialize(tree *goquery.Tree, transform mdclip.Transform, settings *mdclip.Settings) (string, error) {
	switch transform {
	case mdclip.TransformHTML:
		return tree.HTML()

	case mdclip.TransformText:
		return tree.Text(), nil

	case mdclip.TransformList:
		return tree.ListItems(settings.Separator())

	case mdclip.TransformMarkdown:
		if e.Converter == nil {
			return "", mdclip.Errorf(mdclip.EINVALID, "markdown conversion is not available")
		}
		html, err := tree.HTML()
		if err != nil || html == "" {
			return "", err
		}
		md, err := e.Converter.Convert(html)
		if err != nil {
			return "", fmt.Errorf("convert to markdown: %w", err)
		}
		return strings.TrimSpace(md), nil
	}
	return "", mdclip.Errorf(mdclip.EINVALID, "unknown transform %q", transform)
}

// record adds res to the export history. Failures are logged.
func (e *Exporter) record(ctx context.Context, res *Result) {
	if e.Exports == nil {
		return
	}

	err := e.Exports.CreateExport(ctx, &mdclip.Export{
		Policy:     res.Policy,
		Transform:  res.Transform,
		Path:       res.Path,
		Characters: res.Characters(),
		Content:    res.Text,
	})
	if err != nil {
		e.logger().Warn("failed to record export",
			"policy", res.Policy,
			"path", res.Path,
			"error", err,
		)
	}
}

func (e *Exporter) settings() *mdclip.Settings {
	if e.Settings == nil {
		return mdclip.DefaultSettings()
	}
	return e.Settings
}

func (e *Exporter) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

func (e *Exporter) concurrency() int {
	if e.Concurrency <= 0 {
		return DefaultConcurrency
	}
	return e.Concurrency
}

// withPath prefixes err with the document path of req.
func withPath(req Request, err error) error {
	if req.Editor == nil {
		return err
	}
	path := req.Editor.Path()
	if code := mdclip.ErrorCode(err); code != mdclip.EINTERNAL {
		return mdclip.Errorf(code, "%s: %s", path, mdclip.ErrorMessage(err))
	}
	return fmt.Errorf("%s: %w", path, err)
}
