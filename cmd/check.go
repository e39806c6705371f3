package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/lipgloss"
	"github.com/mpvbridge/mpvbridge/constant"
	"github.com/mpvbridge/mpvbridge/icon"
	"github.com/mpvbridge/mpvbridge/key"
	"github.com/mpvbridge/mpvbridge/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that mpv can be found",
	Run: func(cmd *cobra.Command, args []string) {
		path := CheckDependencies()
		fmt.Printf("%s %s found at %s\n",
			style.Fg(style.SuccessColor)(icon.Get(icon.Success)),
			style.Bold(viper.GetString(key.EngineExecutable)),
			style.Faint(path),
		)
	},
}

// CheckDependencies exits with an install hint unless the configured mpv executable is on PATH.
// It returns the resolved executable path.
func CheckDependencies() string {
	exe := viper.GetString(key.EngineExecutable)
	path, err := exec.LookPath(exe)
	if err != nil {
		printMissingDependencyError(exe)
		os.Exit(1)
	}
	return path
}

func printMissingDependencyError(dep string) {
	title := style.New().Bold(true).Foreground(style.ErrorColor).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The required dependency '%s' was not found in your PATH.", dep))

	suggestion := ""
	if installCmd, ok := constant.MpvInstallHints[runtime.GOOS]; ok {
		suggestion = fmt.Sprintf("\n\nTo install it, try running:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	_, _ = fmt.Fprintln(os.Stderr, style.Box(style.ErrorColor,
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
