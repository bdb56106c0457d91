// Package banner renders the startup banner printed by the CLI.
package banner

import (
	"fmt"

	"github.com/fatih/color"
)

const art = `
 ___ _ __   __ _ _ __ ___ | | ___ _ __  ___
/ __| '_ \ / _' | '_ ' _ \| |/ _ \ '_ \/ __|
\__ \ |_) | (_| | | | | | | |  __/ | | \__ \
|___/ .__/ \__,_|_| |_| |_|_|\___|_| |_|___/
    |_|
`

// Banner returns the banner text for version.
func Banner(version string) string {
	return color.CyanString(art) + fmt.Sprintf("  explainable SMS spam classifier %s\n\n", color.YellowString(version))
}
