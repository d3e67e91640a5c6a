package log

import (
	"io"
	"time"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level uint32

const (
	PanicLevel Level = iota
	FatalLevel
	ErrorLevel
	WarnLevel
	InfoLevel
	DebugLevel
)

func Init(out io.Writer) {
	logrus.SetOutput(out)
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.StampMilli,
	})
}

// Disable turns off all logging output.
func Disable() {
	logrus.SetOutput(io.Discard)
}

// A LogContext contributes fields to every emitted entry. The emulator
// registers one so that each line carries the current frame and cycle.
type LogContext interface {
	AddLogContext(z *EntryZ)
}

var contexts []LogContext

func AddContext(c LogContext) {
	contexts = append(contexts, c)
}

// EntryZ accumulates typed fields before emitting a single log line. A nil
// receiver is valid and turns every method into a no-op, so that disabled
// modules cost nothing beyond the level check.
type EntryZ struct {
	mod   Module
	lvl   Level
	msg   string
	zfbuf [16]ZField
	zfidx int
}

func NewEntryZ() *EntryZ {
	return &EntryZ{}
}

func (z *EntryZ) addField(f ZField) *EntryZ {
	if z == nil || z.zfidx >= len(z.zfbuf) {
		return z
	}
	z.zfbuf[z.zfidx] = f
	z.zfidx++
	return z
}

func (z *EntryZ) Bool(key string, v bool) *EntryZ {
	return z.addField(ZField{Type: FieldTypeBool, Key: key, Boolean: v})
}

func (z *EntryZ) String(key, v string) *EntryZ {
	return z.addField(ZField{Type: FieldTypeString, Key: key, String: v})
}

func (z *EntryZ) Hex8(key string, v uint8) *EntryZ {
	return z.addField(ZField{Type: FieldTypeHex8, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Hex16(key string, v uint16) *EntryZ {
	return z.addField(ZField{Type: FieldTypeHex16, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Hex32(key string, v uint32) *EntryZ {
	return z.addField(ZField{Type: FieldTypeHex32, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Int(key string, v int) *EntryZ {
	return z.addField(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Int64(key string, v int64) *EntryZ {
	return z.addField(ZField{Type: FieldTypeInt, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Uint(key string, v uint) *EntryZ {
	return z.addField(ZField{Type: FieldTypeUint, Key: key, Integer: uint64(v)})
}

func (z *EntryZ) Error(key string, err error) *EntryZ {
	return z.addField(ZField{Type: FieldTypeError, Key: key, Error: err})
}

func (z *EntryZ) Duration(key string, d time.Duration) *EntryZ {
	return z.addField(ZField{Type: FieldTypeDuration, Key: key, Duration: d})
}

func (z *EntryZ) Blob(key string, b []byte) *EntryZ {
	return z.addField(ZField{Type: FieldTypeBlob, Key: key, Blob: b})
}

func (z *EntryZ) End() {
	if z == nil {
		return
	}
	for _, c := range contexts {
		c.AddLogContext(z)
	}
	fields := make(logrus.Fields, z.zfidx+1)
	fields["_mod"] = modNames[z.mod]
	for i := range z.zfbuf[:z.zfidx] {
		fields[z.zfbuf[i].Key] = z.zfbuf[i].Value()
	}
	ent := logrus.StandardLogger().WithFields(fields)
	switch z.lvl {
	case DebugLevel:
		ent.Debug(z.msg)
	case InfoLevel:
		ent.Info(z.msg)
	case WarnLevel:
		ent.Warn(z.msg)
	case ErrorLevel:
		ent.Error(z.msg)
	case FatalLevel:
		ent.Fatal(z.msg)
	case PanicLevel:
		ent.Panic(z.msg)
	}
}
