package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mpvbridge/mpvbridge/color"
	"github.com/mpvbridge/mpvbridge/icon"
	"github.com/mpvbridge/mpvbridge/key"
	"github.com/mpvbridge/mpvbridge/log"
	"github.com/mpvbridge/mpvbridge/session"
	"github.com/mpvbridge/mpvbridge/style"
	"github.com/mpvbridge/mpvbridge/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	seekStep   = 10.0
	volumeStep = 5.0
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().Float64P("start", "s", 0, "Seek to this position in seconds once the file is loaded")
	playCmd.Flags().Float64("volume", session.DefaultVolume, "Initial volume")
	playCmd.Flags().Float64("speed", session.DefaultSpeed, "Initial playback speed")
	playCmd.Flags().Duration("tick", 0, "Progress refresh interval, overrides "+key.PlayTickInterval)
}

var playCmd = &cobra.Command{
	Use:   "play [file or url]",
	Short: "Play a file through the session and show its progress",
	Long: `Play a file through the session and show its progress.

Keys: space toggles pause, h and l seek, - and + change the volume, q quits.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		CheckDependencies()

		target := args[0]
		if abs, err := filepath.Abs(target); err == nil && !strings.Contains(target, "://") {
			target = abs
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := useMpv()

		erase := util.PrintErasable(fmt.Sprintf("%s Starting mpv...", icon.Get(icon.Progress)))
		_, err := session.Initialize()
		erase()
		handleErr(err)

		if _, err = session.LoadVideo(target); err != nil {
			s.Release()
			handleErr(err)
		}

		_, err = session.SetVolume(lo.Must(cmd.Flags().GetFloat64("volume")))
		if err == nil {
			_, err = session.SetSpeed(lo.Must(cmd.Flags().GetFloat64("speed")))
		}
		if err != nil {
			s.Release()
			handleErr(err)
		}

		tick := lo.Must(cmd.Flags().GetDuration("tick"))
		if tick <= 0 {
			tick = millis(key.PlayTickInterval)
		}

		p := &player{
			title: util.FileStem(target),
			start: lo.Must(cmd.Flags().GetFloat64("start")),
		}
		err = p.run(ctx, tick)
		s.Release()
		fmt.Println()
		handleErr(err)
	},
}

type player struct {
	title   string
	start   float64
	started bool
}

func (p *player) run(ctx context.Context, tick time.Duration) error {
	keys := make(chan byte)
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer func() { _ = term.Restore(fd, old) }()

		go readKeys(keys)
	}

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case k, ok := <-keys:
			if !ok {
				keys = nil
				continue
			}
			quit, err := p.handleKey(k)
			if quit || err != nil {
				return err
			}
		case <-ticker.C:
		}

		state, err := session.GetState()
		if err != nil {
			return err
		}

		if !p.started && state.Duration > 0 {
			p.started = true
			if p.start > 0 {
				if _, err := session.Seek(p.start); err != nil {
					log.Warnf("play: initial seek to %v: %v", p.start, err)
				}
			}
		}

		p.render(state)

		if p.started && !state.Playing && state.Duration > 0 && state.CurrentTime >= state.Duration-0.5 {
			return nil
		}
	}
}

func readKeys(keys chan<- byte) {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			close(keys)
			return
		}
		if n == 1 {
			keys <- buf[0]
		}
	}
}

// handleKey applies one key press. Ctrl-C arrives as a byte in raw mode.
func (p *player) handleKey(k byte) (quit bool, err error) {
	switch k {
	case 'q', 3:
		return true, nil
	case ' ':
		_, err = session.PlayPause()
	case 'h', 'l':
		var state session.PlaybackState
		if state, err = session.GetState(); err != nil {
			return
		}
		step := seekStep
		if k == 'h' {
			step = -step
		}
		_, err = session.Seek(util.Max(state.CurrentTime+step, 0))
	case '-', '+', '=':
		var state session.PlaybackState
		if state, err = session.GetState(); err != nil {
			return
		}
		step := volumeStep
		if k == '-' {
			step = -step
		}
		_, err = session.SetVolume(util.Min(util.Max(state.Volume+step, 0), 130))
	}
	return
}

func (p *player) render(state session.PlaybackState) {
	status := icon.Get(icon.Pause)
	if state.Playing {
		status = icon.Get(icon.Play)
	}

	left := fmt.Sprintf("%s %s %s", status, style.Bold(p.title), util.FormatSeconds(state.CurrentTime))
	right := fmt.Sprintf("%s  vol %.0f  x%.2g",
		util.FormatSeconds(state.Duration),
		state.Volume,
		state.Speed,
	)

	width, _, err := util.TerminalSize()
	if err != nil {
		width = 80
	}

	// Leave room for the plain text around the bar.
	barWidth := width - len(p.title) - len(right) - 20
	bar := style.Fg(color.Purple)(util.ProgressBar(state.CurrentTime, state.Duration, util.Max(barWidth, 0)))

	fmt.Printf("\r\x1b[K%s %s %s", left, bar, style.Faint(right))
}
