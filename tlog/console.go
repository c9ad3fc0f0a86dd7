package tlog

import (
	"fmt"

	"github.com/ridge/must/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

// This encoder intentionally builds on top of the JSON encoder to ensure
// that the text rendition carries exactly the same data as the JSON one.
//
// The performance is not stellar, but schema generation logs little.

func init() {
	for _, color := range []bool{false, true} {
		color := color
		name := fmt.Sprintf("%s;color=%t", consoleEncoderName, color)
		must.OK(zap.RegisterEncoder(name, func(cfg zapcore.EncoderConfig) (zapcore.Encoder, error) {
			return consoleEncoder{Encoder: zapcore.NewJSONEncoder(cfg), color: color}, nil
		}))
	}
}

const consoleEncoderName = "strata-console"

type consoleEncoder struct {
	zapcore.Encoder // embedded JSON encoder to delegate formatting to
	color           bool
}

// Clone implements zapcore.Encoder
func (ce consoleEncoder) Clone() zapcore.Encoder {
	return consoleEncoder{Encoder: ce.Encoder.Clone(), color: ce.color}
}

// EncodeEntry implements zapcore.Encoder
func (ce consoleEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	jsonBuf, err := ce.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}
	defer jsonBuf.Free()
	return formatJSONMessage(jsonBuf.Bytes(), ce.color)
}
