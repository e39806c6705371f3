package cmd

import (
	"time"

	"github.com/mpvbridge/mpvbridge/engine/mpv"
	"github.com/mpvbridge/mpvbridge/key"
	"github.com/mpvbridge/mpvbridge/session"
	"github.com/mpvbridge/mpvbridge/where"
	"github.com/spf13/viper"
)

func millis(k string) time.Duration {
	return time.Duration(viper.GetInt(k)) * time.Millisecond
}

// engineOptions reads the engine.* settings.
func engineOptions() mpv.Options {
	return mpv.Options{
		Executable:        viper.GetString(key.EngineExecutable),
		SocketDir:         where.Sockets(),
		ExtraArgs:         viper.GetStringSlice(key.EngineExtraArgs),
		IPCTimeout:        millis(key.EngineIPCTimeout),
		SocketWaitRetries: viper.GetInt(key.EngineSocketWaitRetries),
		SocketWaitDelay:   millis(key.EngineSocketWaitDelay),
		QuitTimeout:       millis(key.EngineQuitTimeout),
	}
}

// useMpv points the process-wide session at a real mpv and returns it.
func useMpv() *session.Session {
	session.UseFactory(mpv.NewFactory(engineOptions()))
	return session.Default()
}
