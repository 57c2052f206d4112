// Package banner renders the CLI start-up banner.
package banner

import "fmt"

const art = `     _                         _
 ___| |_ __ _ _   _ _ __  _ __(_) ___ ___
/ __| __/ _' | | | | '_ \| '__| |/ __/ _ \
\__ \ || (_| | |_| | |_) | |  | | (_|  __/
|___/\__\__,_|\__, | .__/|_|  |_|\___\___|
              |___/|_|
`

// Banner returns the banner text followed by the version.
func Banner(version string) string {
	return fmt.Sprintf("%s  nightly price predictor %s\n\n", art, version)
}
