package logger

import (
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"

	"github.com/teranos/moodmap/sym"
)

// glyphEncoder is a console encoder that prefixes the message with the
// glyph of the model named in the "model" field, so interleaved output from
// several models stays scannable:
//
//	INFO	registry	◎ model ready	{"model": "wheel", "duration_ms": 3}
type glyphEncoder struct {
	zapcore.Encoder
	glyph string // from a "model" field bound via With()
}

func newGlyphEncoder() zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: "\t",
	}
	return &glyphEncoder{Encoder: zapcore.NewConsoleEncoder(cfg)}
}

func (e *glyphEncoder) Clone() zapcore.Encoder {
	return &glyphEncoder{Encoder: e.Encoder.Clone(), glyph: e.glyph}
}

func (e *glyphEncoder) AddString(key, value string) {
	if key == FieldModel {
		e.glyph = sym.Glyph(value)
	}
	e.Encoder.AddString(key, value)
}

func (e *glyphEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	glyph := e.glyph
	for _, f := range fields {
		if f.Key == FieldModel && f.Type == zapcore.StringType {
			glyph = sym.Glyph(f.String)
			break
		}
	}
	if glyph != "" {
		ent.Message = glyph + " " + ent.Message
	}
	return e.Encoder.EncodeEntry(ent, fields)
}
