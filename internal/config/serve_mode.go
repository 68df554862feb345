package config

import "git.home.luguber.info/inful/doctool/internal/foundation/normalization"

// ServeMode decides whether the MkDocs preview server runs after a successful build.
type ServeMode string

const (
	ServeAsk    ServeMode = "ask"
	ServeAlways ServeMode = "always"
	ServeNever  ServeMode = "never"
)

var serveModes = normalization.NewNormalizer(map[string]ServeMode{
	"ask":    ServeAsk,
	"prompt": ServeAsk,
	"always": ServeAlways,
	"yes":    ServeAlways,
	"true":   ServeAlways,
	"never":  ServeNever,
	"no":     ServeNever,
	"false":  ServeNever,
})

// NormalizeServeMode case-folds raw and maps common aliases. It returns "" for unknown input.
func NormalizeServeMode(raw string) ServeMode {
	mode, _ := serveModes.Lookup(raw)
	return mode
}

// ServeModeSpellings lists every accepted spelling of a serve mode.
func ServeModeSpellings() []string {
	return serveModes.Keys()
}
