package logging

import (
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

func Any(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Domain field helpers

func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

func SpaceID(id string) Field {
	return String("space_id", id)
}

func MaterialID(id string) Field {
	return String("material_id", id)
}

func SourceID(id string) Field {
	return String("source_id", id)
}

// Wall renders an unordered space pair as "a|b"
func Wall(a, b string) Field {
	return String("wall", a+"|"+b)
}

func Frequency(hz int) Field {
	return Int("frequency_hz", hz)
}

func Noise(total float64) Field {
	return Float64("noise", total)
}

// Threshold logs +Inf thresholds as the string "unset" so the JSON encoder
// never sees an infinity.
func Threshold(v float64, set bool) Field {
	if !set {
		return String("threshold", "unset")
	}
	return Float64("threshold", v)
}

func Phase(name string) Field {
	return String("phase", name)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Count(n int) Field {
	return Int("count", n)
}

func Path(p string) Field {
	return String("path", p)
}
