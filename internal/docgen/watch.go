package docgen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	foundationerrors "git.home.luguber.info/inful/doctool/internal/foundation/errors"
	"git.home.luguber.info/inful/doctool/internal/logfields"
	"git.home.luguber.info/inful/doctool/internal/process"
)

// rebuildDebounce coalesces bursts of file events (editor saves, git checkouts).
var rebuildDebounce = 300 * time.Millisecond

// watchSources watches the configured source directories and regenerates the source docs on
// change until ctx is cancelled. The returned function blocks until the watcher has stopped.
// A missing watch directory is skipped with a warning.
func (g *Generator) watchSources(ctx context.Context) (func(), error) {
	var dirs []string
	for _, rel := range g.cfg.Doxygen.Watch {
		dir := filepath.Join(g.layout.Root, rel)
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			g.logger.Warn("Watch directory not found, skipping", logfields.Path(dir))
			continue
		}
		dirs = append(dirs, dir)
	}
	if len(dirs) == 0 {
		g.logger.Warn("No source directories to watch; source docs will not be regenerated")
		return func() {}, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, foundationerrors.WrapError(err, foundationerrors.CategoryRuntime, "failed to create file watcher").Fatal().Build()
	}
	for _, dir := range dirs {
		g.addDirsRecursive(watcher, dir)
	}

	rebuildReq, trigger := newRebuildDebouncer(rebuildDebounce)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		g.rebuildWorker(ctx, rebuildReq)
	}()
	go func() {
		defer wg.Done()
		defer func() { _ = watcher.Close() }()
		g.watchLoop(ctx, watcher, trigger)
	}()

	g.logger.Info("Watching sources for changes", "dirs", strings.Join(dirs, ","))
	return wg.Wait, nil
}

// newRebuildDebouncer returns a request channel and a trigger that sends on it once the
// triggers have been quiet for delay.
func newRebuildDebouncer(delay time.Duration) (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	return rebuildReq, trigger
}

// rebuildWorker runs one rebuild at a time. Requests arriving during a rebuild are held in
// the channel's single slot and produce exactly one follow-up rebuild.
func (g *Generator) rebuildWorker(ctx context.Context, rebuildReq <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-rebuildReq:
			g.logger.Info("Source change detected; regenerating source docs")
			if err := g.rebuildSourceDocs(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				g.logger.Warn("Source docs rebuild failed", logfields.Error(err))
			}
		}
	}
}

// rebuildSourceDocs is GenerateSourceDocs without stage recording; it runs concurrently
// with the serve stage.
func (g *Generator) rebuildSourceDocs(ctx context.Context) error {
	generated, err := g.PrepareDoxyfile()
	if err != nil {
		return err
	}
	return g.runner.Run(ctx, process.Command{
		Name: g.cfg.Doxygen.Binary,
		Args: []string{generated},
		Dir:  g.layout.Root,
	})
}

func (g *Generator) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, trigger func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			g.handleFileEvent(watcher, ev, trigger)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			g.logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func (g *Generator) handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnoreEvent(ev.Name) || g.isGeneratedPath(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			g.addDirsRecursive(watcher, ev.Name)
		}
	}
	g.logger.Debug("File change detected", logfields.Path(ev.Name), "op", ev.Op.String())
	trigger()
}

// isGeneratedPath reports whether path lies inside the Doxygen output directory, which may
// sit under a watched directory.
func (g *Generator) isGeneratedPath(path string) bool {
	rel, err := filepath.Rel(g.layout.DoxygenOutput, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}

func (g *Generator) addDirsRecursive(w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if g.isGeneratedPath(path) {
			return filepath.SkipDir
		}
		if err := w.Add(path); err != nil {
			g.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for hidden, editor swap and OS metadata files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"), strings.HasSuffix(base, ".swp"), strings.HasSuffix(base, ".swx"):
		return true
	case strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
