// Package templates holds the HTML templates served by the site.
package templates

import "embed"

//go:embed *.tmpl
var FS embed.FS
