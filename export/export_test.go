package export_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/mdclip"
	"github.com/fwojciec/mdclip/export"
	"github.com/fwojciec/mdclip/fs"
	"github.com/fwojciec/mdclip/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storyHTML = `<h2 data-heading="Tags" dir="auto">Tags</h2><p dir="auto">t</p>` +
	`<h2 data-heading="Story" dir="auto">Story</h2><p dir="auto">s1</p><p dir="auto">s2</p>` +
	`<h2 data-heading="Notes" dir="auto">Notes</h2>`

func renderer(html string) *mock.Renderer {
	return &mock.Renderer{
		RenderFn: func(ctx context.Context, markdown, path string) (string, error) {
			return html, nil
		},
	}
}

// captureSink returns a mock sink appending written text to texts.
// A nil texts discards the text.
func captureSink(texts *[]string) *mock.Sink {
	return &mock.Sink{
		WriteTextFn: func(_ context.Context, text string) error {
			if texts != nil {
				*texts = append(*texts, text)
			}
			return nil
		},
	}
}

func TestExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("exports sanitized document HTML", func(t *testing.T) {
		t.Parallel()

		var written []string
		sink := captureSink(&written)
		e := &export.Exporter{
			Renderer: renderer(`<h1 data-heading="T" dir="auto">T</h1><p dir="auto">body</p>`),
			Sink:     sink,
		}

		res, err := e.Export(context.Background(), export.Request{
			Editor: fs.NewBuffer("note.md", "# T\nbody"),
			Policy: mdclip.PolicyDocument,
		})

		require.NoError(t, err)
		assert.Equal(t, "<h1>T</h1><p>body</p>", res.Text)
		assert.Equal(t, []string{res.Text}, written)
		assert.Equal(t, mdclip.TransformHTML, res.Transform)
		assert.Equal(t, "note.md", res.Path)
		assert.Equal(t, len(res.Text), res.Characters())
	})

	t.Run("passes the document text and path to the renderer", func(t *testing.T) {
		t.Parallel()

		var gotMarkdown, gotPath string
		e := &export.Exporter{
			Renderer: &mock.Renderer{
				RenderFn: func(ctx context.Context, markdown, path string) (string, error) {
					gotMarkdown, gotPath = markdown, path
					return "<p>x</p>", nil
				},
			},
			Sink: captureSink(nil),
		}

		_, err := e.Export(context.Background(), export.Request{
			Editor: fs.NewBuffer("dir/note.md", "x\n"),
			Policy: mdclip.PolicyDocument,
		})

		require.NoError(t, err)
		assert.Equal(t, "x\n", gotMarkdown)
		assert.Equal(t, "dir/note.md", gotPath)
	})

	t.Run("trims to the story section", func(t *testing.T) {
		t.Parallel()

		e := &export.Exporter{Renderer: renderer(storyHTML), Sink: captureSink(nil)}

		res, err := e.Export(context.Background(), export.Request{
			Editor: fs.NewBuffer("note.md", ""),
			Policy: mdclip.PolicyStory,
		})

		require.NoError(t, err)
		assert.Equal(t, "<p>s1</p><p>s2</p>", res.Text)
	})

	t.Run("joins tag list items", func(t *testing.T) {
		t.Parallel()

		e := &export.Exporter{
			Renderer: renderer(`<h2>Story</h2><p>x</p><h2>Tags</h2><ul><li>fluff</li><li>angst</li></ul>`),
			Sink:     captureSink(nil),
		}

		res, err := e.Export(context.Background(), export.Request{
			Editor: fs.NewBuffer("note.md", ""),
			Policy: mdclip.PolicyTags,
		})

		require.NoError(t, err)
		assert.Equal(t, "fluff, angst", res.Text)
		assert.Equal(t, mdclip.TransformList, res.Transform)
	})

	t.Run("uses the configured list separator", func(t *testing.T) {
		t.Parallel()

		settings := mdclip.DefaultSettings()
		settings.ListItemSeparator = " / "
		e := &export.Exporter{
			Renderer: renderer(`<ul><li>a</li><li>b</li></ul>`),
			Sink:     captureSink(nil),
			Settings: settings,
		}

		res, err := e.Export(context.Background(), export.Request{
			Editor:    fs.NewBuffer("note.md", ""),
			Policy:    mdclip.PolicyDocument,
			Transform: mdclip.TransformList,
		})

		require.NoError(t, err)
		assert.Equal(t, "a / b", res.Text)
	})

	t.Run("applies a transform override", func(t *testing.T) {
		t.Parallel()

		e := &export.Exporter{Renderer: renderer(storyHTML), Sink: captureSink(nil)}

		res, err := e.Export(context.Background(), export.Request{
			Editor:    fs.NewBuffer("note.md", ""),
			Policy:    mdclip.PolicyStory,
			Transform: mdclip.TransformText,
		})

		require.NoError(t, err)
		assert.Equal(t, "s1\n\ns2", res.Text)
	})

	t.Run("converts to markdown", func(t *testing.T) {
		t.Parallel()

		var gotHTML string
		e := &export.Exporter{
			Renderer: renderer(storyHTML),
			Converter: &mock.Converter{
				ConvertFn: func(html string) (string, error) {
					gotHTML = html
					return "s1\n\ns2\n", nil
				},
			},
			Sink: captureSink(nil),
		}

		res, err := e.Export(context.Background(), export.Request{
			Editor:    fs.NewBuffer("note.md", ""),
			Policy:    mdclip.PolicyStory,
			Transform: mdclip.TransformMarkdown,
		})

		require.NoError(t, err)
		assert.Equal(t, "<p>s1</p><p>s2</p>", gotHTML)
		assert.Equal(t, "s1\n\ns2", res.Text)
	})

	t.Run("summarizes leading paragraphs", func(t *testing.T) {
		t.Parallel()

		e := &export.Exporter{
			Renderer: renderer(`<p>one</p><p>two</p><p><a class="tag" href="#x">#x</a></p><h2>Story</h2>`),
			Sink:     captureSink(nil),
		}

		res, err := e.Export(context.Background(), export.Request{
			Editor: fs.NewBuffer("note.md", ""),
			Policy: mdclip.PolicySummary,
		})

		require.NoError(t, err)
		assert.Equal(t, "<p>one</p><p>two</p>", res.Text)
	})

	t.Run("returns ENOTFOUND for a missing section without writing", func(t *testing.T) {
		t.Parallel()

		var written []string
		sink := captureSink(&written)
		e := &export.Exporter{Renderer: renderer(`<p>no sections</p>`), Sink: sink}

		_, err := e.Export(context.Background(), export.Request{
			Editor: fs.NewBuffer("note.md", ""),
			Policy: mdclip.PolicyStory,
		})

		require.Error(t, err)
		assert.Equal(t, mdclip.ENOTFOUND, mdclip.ErrorCode(err))
		assert.Empty(t, written)
	})

	t.Run("returns ENOTFOUND when there are no list items", func(t *testing.T) {
		t.Parallel()

		var written []string
		sink := captureSink(&written)
		e := &export.Exporter{Renderer: renderer(`<h2>Tags</h2><p>none</p>`), Sink: sink}

		_, err := e.Export(context.Background(), export.Request{
			Editor: fs.NewBuffer("note.md", ""),
			Policy: mdclip.PolicyTags,
		})

		assert.Equal(t, mdclip.ENOTFOUND, mdclip.ErrorCode(err))
		assert.Equal(t, "no list items could be located", mdclip.ErrorMessage(err))
		assert.Empty(t, written)
	})

	t.Run("returns EINVALID when sanitizing leaves nothing", func(t *testing.T) {
		t.Parallel()

		var written []string
		sink := captureSink(&written)
		e := &export.Exporter{
			Renderer: renderer(`<p><span class="internal-embed" alt="^S1"></span></p>`),
			Sink:     sink,
		}

		_, err := e.Export(context.Background(), export.Request{
			Editor: fs.NewBuffer("note.md", ""),
			Policy: mdclip.PolicyDocument,
		})

		assert.Equal(t, mdclip.EINVALID, mdclip.ErrorCode(err))
		assert.Equal(t, "selection was empty", mdclip.ErrorMessage(err))
		assert.Empty(t, written)
	})

	t.Run("returns ENOTFOUND for an empty selection", func(t *testing.T) {
		t.Parallel()

		e := &export.Exporter{Renderer: renderer("<p>x</p>"), Sink: captureSink(nil)}

		_, err := e.Export(context.Background(), export.Request{
			Editor: fs.NewBuffer("note.md", "text"),
			Policy: mdclip.PolicySelection,
		})

		assert.Equal(t, mdclip.ENOTFOUND, mdclip.ErrorCode(err))
	})

	t.Run("renders only the selection", func(t *testing.T) {
		t.Parallel()

		var gotMarkdown string
		e := &export.Exporter{
			Renderer: &mock.Renderer{
				RenderFn: func(ctx context.Context, markdown, path string) (string, error) {
					gotMarkdown = markdown
					return "<p>" + markdown + "</p>", nil
				},
			},
			Sink: captureSink(nil),
		}
		ed := fs.NewBuffer("note.md", "first\nsecond\nthird")
		require.NoError(t, ed.SelectLines(1, 1))

		res, err := e.Export(context.Background(), export.Request{Editor: ed, Policy: mdclip.PolicySelection})

		require.NoError(t, err)
		assert.Equal(t, "second", gotMarkdown)
		assert.Equal(t, "<p>second</p>", res.Text)
	})

	t.Run("returns ENOTFOUND without an editor", func(t *testing.T) {
		t.Parallel()

		e := &export.Exporter{Renderer: renderer("<p>x</p>"), Sink: captureSink(nil)}

		_, err := e.Export(context.Background(), export.Request{Policy: mdclip.PolicyDocument})

		assert.Equal(t, mdclip.ENOTFOUND, mdclip.ErrorCode(err))
	})

	t.Run("returns ENOTFOUND for an unknown policy", func(t *testing.T) {
		t.Parallel()

		e := &export.Exporter{Renderer: renderer("<p>x</p>"), Sink: captureSink(nil)}

		_, err := e.Export(context.Background(), export.Request{
			Editor: fs.NewBuffer("note.md", ""),
			Policy: "chapter",
		})

		assert.Equal(t, mdclip.ENOTFOUND, mdclip.ErrorCode(err))
	})

	t.Run("rejects invalid selectors before rendering", func(t *testing.T) {
		t.Parallel()

		settings := mdclip.DefaultSettings()
		settings.AddSelector("p[")
		e := &export.Exporter{
			Renderer: &mock.Renderer{
				RenderFn: func(ctx context.Context, markdown, path string) (string, error) {
					t.Fatal("renderer must not be called")
					return "", nil
				},
			},
			Sink:     captureSink(nil),
			Settings: settings,
		}

		_, err := e.Export(context.Background(), export.Request{
			Editor: fs.NewBuffer("note.md", ""),
			Policy: mdclip.PolicyDocument,
		})

		assert.Equal(t, mdclip.EINVALID, mdclip.ErrorCode(err))
	})

	t.Run("wraps renderer errors", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		e := &export.Exporter{
			Renderer: &mock.Renderer{
				RenderFn: func(ctx context.Context, markdown, path string) (string, error) {
					return "", boom
				},
			},
			Sink: captureSink(nil),
		}

		_, err := e.Export(context.Background(), export.Request{
			Editor: fs.NewBuffer("note.md", ""),
			Policy: mdclip.PolicyDocument,
		})

		assert.ErrorIs(t, err, boom)
		assert.Equal(t, mdclip.EINTERNAL, mdclip.ErrorCode(err))
	})

	t.Run("returns sink errors", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("clipboard unavailable")
		e := &export.Exporter{
			Renderer: renderer("<p>x</p>"),
			Sink: &mock.Sink{
				WriteTextFn: func(ctx context.Context, text string) error {
					return boom
				},
			},
		}

		_, err := e.Export(context.Background(), export.Request{
			Editor: fs.NewBuffer("note.md", ""),
			Policy: mdclip.PolicyDocument,
		})

		assert.ErrorIs(t, err, boom)
	})
}

func TestExporter_Export_Heading(t *testing.T) {
	t.Parallel()

	const doc = "## A\na1\n\n## B\nb1"

	headings := &mock.HeadingIndex{
		HeadingsFn: func(markdown string) ([]mdclip.Heading, error) {
			return []mdclip.Heading{
				{Text: "A", Level: 2, StartLine: 0, EndLine: 0},
				{Text: "B", Level: 2, StartLine: 3, EndLine: 3},
			}, nil
		},
	}

	t.Run("renders the section under the cursor heading", func(t *testing.T) {
		t.Parallel()

		var gotMarkdown string
		e := &export.Exporter{
			Renderer: &mock.Renderer{
				RenderFn: func(ctx context.Context, markdown, path string) (string, error) {
					gotMarkdown = markdown
					return "<h2>A</h2><p>a1</p>", nil
				},
			},
			Headings: headings,
			Sink:     captureSink(nil),
		}

		res, err := e.Export(context.Background(), export.Request{
			Editor: fs.NewBuffer("note.md", doc),
			Policy: mdclip.PolicyHeading,
		})

		require.NoError(t, err)
		assert.Equal(t, "## A\na1", gotMarkdown)
		assert.Equal(t, "<h2>A</h2><p>a1</p>", res.Text)
	})

	t.Run("drops the heading element when configured", func(t *testing.T) {
		t.Parallel()

		settings := mdclip.DefaultSettings()
		settings.IncludeHeadingElement = false
		e := &export.Exporter{
			Renderer: renderer("<h2>A</h2><p>a1</p>"),
			Headings: headings,
			Sink:     captureSink(nil),
			Settings: settings,
		}

		res, err := e.Export(context.Background(), export.Request{
			Editor: fs.NewBuffer("note.md", doc),
			Policy: mdclip.PolicyHeading,
		})

		require.NoError(t, err)
		assert.Equal(t, "<p>a1</p>", res.Text)
	})

	t.Run("returns ENOTFOUND when the cursor is not on a heading", func(t *testing.T) {
		t.Parallel()

		ed := fs.NewBuffer("note.md", doc)
		require.NoError(t, ed.SetCursor(1))
		e := &export.Exporter{Renderer: renderer("<p>x</p>"), Headings: headings, Sink: captureSink(nil)}

		_, err := e.Export(context.Background(), export.Request{Editor: ed, Policy: mdclip.PolicyHeading})

		assert.Equal(t, mdclip.ENOTFOUND, mdclip.ErrorCode(err))
	})
}

func TestExporter_Export_History(t *testing.T) {
	t.Parallel()

	t.Run("records completed exports", func(t *testing.T) {
		t.Parallel()

		var got *mdclip.Export
		e := &export.Exporter{
			Renderer: renderer("<p>x</p>"),
			Sink:     captureSink(nil),
			Exports: &mock.ExportService{
				CreateExportFn: func(ctx context.Context, exp *mdclip.Export) error {
					got = exp
					return nil
				},
			},
		}

		_, err := e.Export(context.Background(), export.Request{
			Editor:    fs.NewBuffer("note.md", "x"),
			Policy:    mdclip.PolicyDocument,
			Transform: mdclip.TransformText,
		})

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, mdclip.PolicyDocument, got.Policy)
		assert.Equal(t, mdclip.TransformText, got.Transform)
		assert.Equal(t, "note.md", got.Path)
		assert.Equal(t, 1, got.Characters)
		assert.Equal(t, "x", got.Content)
	})

	t.Run("logs history failures without failing the export", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		var written []string
		sink := captureSink(&written)
		e := &export.Exporter{
			Renderer: renderer("<p>x</p>"),
			Sink:     sink,
			Exports: &mock.ExportService{
				CreateExportFn: func(ctx context.Context, exp *mdclip.Export) error {
					return errors.New("database is locked")
				},
			},
			Logger: slog.New(slog.NewTextHandler(&logs, nil)),
		}

		_, err := e.Export(context.Background(), export.Request{
			Editor: fs.NewBuffer("note.md", "x"),
			Policy: mdclip.PolicyDocument,
		})

		require.NoError(t, err)
		assert.Len(t, written, 1)
		assert.Contains(t, logs.String(), "failed to record export")
		assert.Contains(t, logs.String(), "database is locked")
	})
}

func TestExporter_ExportAll(t *testing.T) {
	t.Parallel()

	byPath := &mock.Renderer{
		RenderFn: func(ctx context.Context, markdown, path string) (string, error) {
			return "<p>" + strings.TrimSuffix(path, ".md") + "</p>", nil
		},
	}

	t.Run("joins results in request order", func(t *testing.T) {
		t.Parallel()

		var written []string
		sink := captureSink(&written)
		e := &export.Exporter{Renderer: byPath, Sink: sink, Concurrency: 2}

		var reqs []export.Request
		for _, name := range []string{"a.md", "b.md", "c.md", "d.md"} {
			reqs = append(reqs, export.Request{Editor: fs.NewBuffer(name, ""), Policy: mdclip.PolicyDocument})
		}

		batch, err := e.ExportAll(context.Background(), reqs)

		require.NoError(t, err)
		want := "<p>a</p>\n\n<p>b</p>\n\n<p>c</p>\n\n<p>d</p>"
		assert.Equal(t, want, batch.Text)
		assert.Equal(t, []string{want}, written)
		require.Len(t, batch.Results, 4)
		assert.Equal(t, "c.md", batch.Results[2].Path)
	})

	t.Run("prefixes failures with the document path and writes nothing", func(t *testing.T) {
		t.Parallel()

		var written []string
		sink := captureSink(&written)
		e := &export.Exporter{Renderer: byPath, Sink: sink}

		_, err := e.ExportAll(context.Background(), []export.Request{
			{Editor: fs.NewBuffer("a.md", ""), Policy: mdclip.PolicyDocument},
			{Editor: fs.NewBuffer("b.md", ""), Policy: mdclip.PolicyStory},
		})

		require.Error(t, err)
		assert.Equal(t, mdclip.ENOTFOUND, mdclip.ErrorCode(err))
		assert.Equal(t, "b.md: no story section could be identified", mdclip.ErrorMessage(err))
		assert.Empty(t, written)
	})

	t.Run("records every export", func(t *testing.T) {
		t.Parallel()

		var mu sync.Mutex
		var paths []string
		e := &export.Exporter{
			Renderer: byPath,
			Sink:     captureSink(nil),
			Exports: &mock.ExportService{
				CreateExportFn: func(ctx context.Context, exp *mdclip.Export) error {
					mu.Lock()
					defer mu.Unlock()
					paths = append(paths, exp.Path)
					return nil
				},
			},
		}

		_, err := e.ExportAll(context.Background(), []export.Request{
			{Editor: fs.NewBuffer("a.md", ""), Policy: mdclip.PolicyDocument},
			{Editor: fs.NewBuffer("b.md", ""), Policy: mdclip.PolicyDocument},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"a.md", "b.md"}, paths)
	})

	t.Run("returns EINVALID for no requests", func(t *testing.T) {
		t.Parallel()

		e := &export.Exporter{Renderer: byPath, Sink: captureSink(nil)}

		_, err := e.ExportAll(context.Background(), nil)

		assert.Equal(t, mdclip.EINVALID, mdclip.ErrorCode(err))
	})
}

func TestExporter_Policies(t *testing.T) {
	t.Parallel()

	names := func(policies []mdclip.Policy) []string {
		var out []string
		for _, p := range policies {
			out = append(out, p.Name)
		}
		return out
	}

	t.Run("offers document variants everywhere", func(t *testing.T) {
		t.Parallel()

		e := &export.Exporter{}
		ed := fs.NewBuffer("note.md", "plain text")

		assert.Equal(t, []string{"document", "summary", "story", "tags"}, names(e.Policies(ed)))
	})

	t.Run("offers heading and selection variants when they apply", func(t *testing.T) {
		t.Parallel()

		e := &export.Exporter{}
		ed := fs.NewBuffer("note.md", "## Heading\ntext")
		ed.Select(mdclip.Position{Line: 1}, mdclip.Position{Line: 1, Ch: 4})

		assert.Equal(t, []string{"selection", "heading", "heading-list", "document", "summary", "story", "tags"}, names(e.Policies(ed)))
	})

	t.Run("lists every policy without an editor", func(t *testing.T) {
		t.Parallel()

		e := &export.Exporter{}

		assert.Len(t, e.Policies(nil), 7)
	})
}
