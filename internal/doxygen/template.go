package doxygen

import (
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// Recognized template tokens.
const (
	TokenSourceDir          = "@CMAKE_SOURCE_DIR@"
	TokenProjectName        = "@PROJECT_NAME@"
	TokenProjectVersion     = "@PROJECT_VERSION@"
	TokenProjectDescription = "@PROJECT_DESCRIPTION@"
	TokenOutputDir          = "@DOXYGEN_OUTPUT_DIR@"
)

var (
	outputDirectoryLine = regexp.MustCompile(`(?m)^OUTPUT_DIRECTORY[ \t]*=.*?(\r?)$`)
	leftoverToken       = regexp.MustCompile(`@[A-Z][A-Z0-9_]*@`)
)

// Project is the metadata substituted into the template.
type Project struct {
	Name        string
	Version     string
	Description string
}

// Placeholders maps a full token (with '@' delimiters) to its replacement.
type Placeholders map[string]string

// NewPlaceholders builds the replacement set. Paths are written with forward slashes.
// extra keys may be given with or without the surrounding '@'; they never override the
// built-in tokens.
func NewPlaceholders(p Project, root, outputDir string, extra map[string]string) Placeholders {
	ph := make(Placeholders, 5+len(extra))
	for token, value := range extra {
		ph[wrapToken(token)] = value
	}
	ph[TokenSourceDir] = filepath.ToSlash(root)
	ph[TokenProjectName] = p.Name
	ph[TokenProjectVersion] = p.Version
	ph[TokenProjectDescription] = p.Description
	ph[TokenOutputDir] = filepath.ToSlash(outputDir)
	return ph
}

func wrapToken(token string) string {
	return "@" + strings.Trim(token, "@") + "@"
}

// Tokens returns the tokens in replacement order.
func (ph Placeholders) Tokens() []string {
	tokens := make([]string, 0, len(ph))
	for t := range ph {
		tokens = append(tokens, t)
	}
	slices.Sort(tokens)
	return tokens
}

// Render substitutes every placeholder in text and rewrites each OUTPUT_DIRECTORY line to
// point at outputDir. Values are inserted literally.
func Render(text string, ph Placeholders, outputDir string) string {
	pairs := make([]string, 0, 2*len(ph))
	for _, token := range ph.Tokens() {
		pairs = append(pairs, token, ph[token])
	}
	text = strings.NewReplacer(pairs...).Replace(text)

	line := "OUTPUT_DIRECTORY       = " + filepath.ToSlash(outputDir)
	return outputDirectoryLine.ReplaceAllStringFunc(text, func(m string) string {
		if strings.HasSuffix(m, "\r") {
			return line + "\r"
		}
		return line
	})
}

// Unresolved lists the distinct @TOKEN@ markers still present in text, sorted.
func Unresolved(text string) []string {
	found := leftoverToken.FindAllString(text, -1)
	slices.Sort(found)
	return slices.Compact(found)
}
