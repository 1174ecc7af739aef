// Package templates embeds the HTML templates rendered by the service layer.
package templates

import _ "embed"

//go:embed report.html
var Report string
