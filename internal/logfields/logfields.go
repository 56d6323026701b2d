// Package logfields holds the canonical slog attribute keys used across
// staticpress so build and preview logs stay greppable.
package logfields

import (
	"log/slog"
	"time"
)

const (
	KeyPath       = "path"
	KeyRoute      = "route"
	KeySlug       = "slug"
	KeyTag        = "tag"
	KeyField      = "field"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"
	KeyAddr       = "addr"
	KeyCount      = "count"
	KeyError      = "error"
)

func Path(p string) slog.Attr { return slog.String(KeyPath, p) }
func Route(r string) slog.Attr { return slog.String(KeyRoute, r) }
func Slug(s string) slog.Attr { return slog.String(KeySlug, s) }
func Tag(t string) slog.Attr { return slog.String(KeyTag, t) }
func Field(f string) slog.Attr { return slog.String(KeyField, f) }
func Stage(name string) slog.Attr { return slog.String(KeyStage, name) }
func Method(m string) slog.Attr { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr { return slog.Int(KeyStatus, code) }
func RemoteAddr(a string) slog.Attr { return slog.String(KeyRemoteAddr, a) }
func Addr(a string) slog.Attr { return slog.String(KeyAddr, a) }
func Count(n int) slog.Attr { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }

// Since reports the elapsed time from start in milliseconds.
func Since(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
