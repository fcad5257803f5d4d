package engine

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/ferrycp/ferry/internal/filter"
	"github.com/ferrycp/ferry/internal/logging"
)

// walkItem is one element of the walk stream: an entry snapshot, or a
// traversal failure located by Entry.RelPath.
type walkItem struct {
	Entry Entry
	Err   error
}

// walker streams the source tree lazily in depth-first pre-order: every
// directory is emitted before anything beneath it, siblings in lexical
// order. It runs single-threaded; concurrency lives downstream.
type walker struct {
	root      string
	recursive bool
	filter    *filter.Set
	items     chan walkItem
	log       zerolog.Logger
}

func newWalker(root string, recursive bool, f *filter.Set) *walker {
	return &walker{
		root:      root,
		recursive: recursive,
		filter:    f,
		items:     make(chan walkItem, 64),
		log:       logging.Get("walker"),
	}
}

// walk starts the traversal and returns the stream. The channel closes
// when the walk finishes or the context is canceled. A failure to read
// the root itself is emitted with RelPath "."; failures below the root
// are emitted for their directory and the walk continues with siblings.
func (w *walker) walk(ctx context.Context) <-chan walkItem {
	go func() {
		defer close(w.items)
		w.walkDir(ctx, ".")
	}()
	return w.items
}

func (w *walker) walkDir(ctx context.Context, rel string) {
	entries, err := os.ReadDir(filepath.Join(w.root, rel))
	if err != nil {
		w.log.Warn().Err(err).Str("dir", rel).Msg("unreadable directory")
		w.send(ctx, walkItem{Entry: Entry{RelPath: rel, Kind: KindDir}, Err: err})
		return
	}
	for _, de := range entries {
		if ctx.Err() != nil {
			return
		}
		childRel := filepath.Join(rel, de.Name())
		info, err := de.Info()
		if err != nil {
			// entry vanished mid-walk; report and keep going
			w.send(ctx, walkItem{Entry: Entry{RelPath: childRel}, Err: err})
			continue
		}
		e := entryFromInfo(childRel, info)
		if w.filter != nil && !w.filter.Match(childRel, e.Kind == KindDir, e.Size) {
			w.log.Debug().Str("path", childRel).Msg("filtered out")
			continue
		}
		if !w.send(ctx, walkItem{Entry: e}) {
			return
		}
		if e.Kind == KindDir && w.recursive {
			w.walkDir(ctx, childRel)
		}
	}
}

func (w *walker) send(ctx context.Context, item walkItem) bool {
	select {
	case w.items <- item:
		return true
	case <-ctx.Done():
		return false
	}
}
