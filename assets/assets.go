// Package assets embeds the demo's scene layouts and scripts.
package assets

import "embed"

// FS holds data/scenes/*.json and data/scripts/*.
//
//go:embed data
var FS embed.FS

// LayoutDir is the directory of layout documents inside FS.
const LayoutDir = "data/scenes"
