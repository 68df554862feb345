package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"

	foundationerrors "git.home.luguber.info/inful/doctool/internal/foundation/errors"
	"git.home.luguber.info/inful/doctool/internal/logfields"
)

// rootMarkers identify a documentation root when no git work tree encloses the start directory.
var rootMarkers = []string{DoxyfileName, MkDocsConfigName}

// ResolveRoot returns the absolute repository root. explicit wins when non-empty and must be an
// existing directory; otherwise the root is located upwards from start.
func ResolveRoot(explicit, start string) (string, error) {
	if explicit != "" {
		abs, err := filepath.Abs(explicit)
		if err != nil {
			return "", foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to resolve root").Fatal().Build()
		}
		if st, err := os.Stat(abs); err != nil || !st.IsDir() {
			return "", foundationerrors.NotFoundError(fmt.Sprintf("repository root not found or not a directory: %s", abs)).Build()
		}
		return abs, nil
	}
	return LocateRoot(start)
}

// LocateRoot walks up from start to find the repository root.
func LocateRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", foundationerrors.WrapError(err, foundationerrors.CategoryFileSystem, "failed to resolve start directory").Fatal().Build()
	}

	if root, ok := gitWorktreeRoot(abs); ok {
		slog.Debug("Repository root from git work tree", logfields.Path(root))
		return root, nil
	}

	for dir := abs; ; dir = filepath.Dir(dir) {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				slog.Debug("Repository root from marker file", logfields.Path(dir), "marker", marker)
				return dir, nil
			}
		}
		if parent := filepath.Dir(dir); parent == dir {
			break
		}
	}

	return "", foundationerrors.NotFoundError(
		fmt.Sprintf("could not locate repository root from %s (no git work tree, %s or %s found; use --root)",
			abs, DoxyfileName, MkDocsConfigName)).Build()
}

func gitWorktreeRoot(start string) (string, bool) {
	repo, err := git.PlainOpenWithOptions(start, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if !errors.Is(err, git.ErrRepositoryNotExists) {
			slog.Debug("Ignoring unreadable git repository", logfields.Path(start), logfields.Error(err))
		}
		return "", false
	}
	wt, err := repo.Worktree()
	if err != nil {
		// bare repository
		return "", false
	}
	return wt.Filesystem.Root(), true
}
