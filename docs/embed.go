// Copyright © 2026 The Tilelisp authors

// Package docs embeds the tilelisp language guide for use by the CLI.
package docs

import _ "embed"

// LangGuide is the language guide shown by "tilelisp doc --guide".
//
//go:embed lang.md
var LangGuide string
