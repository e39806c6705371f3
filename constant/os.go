package constant

// Platform identifiers for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
	FreeBSD = "freebsd"
)

// MpvInstallHints suggests how to install mpv on each platform.
var MpvInstallHints = map[string]string{
	Darwin:  "brew install mpv",
	Linux:   "sudo apt install mpv",
	Windows: "scoop install mpv",
	FreeBSD: "pkg install mpv",
}
