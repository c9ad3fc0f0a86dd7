package tlog

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap/buffer"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// This code tries hard to avoid failing and thus obscuring a part of log
// message. It will warn, scream, misformat, but it will always return all
// the data that was present in the original message.

var bufferPool = buffer.NewPool()

// formatJSONMessage renders a single JSON-formatted log message as one line
// of text: timestamp, level, message, sorted fields, logger name and caller.
func formatJSONMessage(logMessage []byte, color bool) (*buffer.Buffer, error) {
	var parsedMsg map[string]any
	if err := json.Unmarshal(logMessage, &parsedMsg); err != nil {
		return nil, err
	}

	// special keys
	level := extractSpecialKey(parsedMsg, "level")
	ts := extractSpecialKey(parsedMsg, "ts")
	caller := extractSpecialKey(parsedMsg, "caller")
	msg := extractSpecialKey(parsedMsg, "msg")

	logger, _ := maybeExtractSpecialKey(parsedMsg, "logger")
	errorStr, haveError := maybeExtractSpecialKey(parsedMsg, "error")

	buf := bufferPool.Get()
	style := consoleStyles[color]

	buf.AppendString(ts)
	buf.AppendByte(' ')
	formatLevel(buf, level, style)

	buf.AppendByte(' ')
	style(buf, messageColor, msg)

	parsedMsgKeys := maps.Keys(parsedMsg)
	slices.Sort(parsedMsgKeys)

	for _, field := range parsedMsgKeys {
		buf.AppendByte(' ')
		style(buf, fieldColor, field+"=")
		formatValue(buf, parsedMsg[field], style)
	}

	// Error is put last
	if haveError {
		buf.AppendByte(' ')
		style(buf, errorColor, "error=")
		formatString(buf, errorStr)
	}

	buf.AppendString(" [")
	buf.AppendString(logger)
	buf.AppendString("] (")
	style(buf, callerColor, caller)
	buf.AppendString(")\n")

	return buf, nil
}

// Extracts the key by removing it from the parsedMsg. If the key is not
// of string type, it is converted to a string forcibly with a warning.
func maybeExtractSpecialKey(parsedMsg map[string]any, key string) (string, bool) {
	val, ok := parsedMsg[key]
	if !ok {
		return "", false
	}

	delete(parsedMsg, key)
	strVal, ok := val.(string)
	if !ok {
		return fmt.Sprintf("<MALFORMED %v OF TYPE %T>", val, val), true
	}

	return strVal, true
}

// Extracts the key by removing it from the parsedMsg. If the key is not
// of string type, it is converted to a string forcibly with a warning.
// If the key is missing, the warning message is returned too.
func extractSpecialKey(parsedMsg map[string]any, key string) string {
	val, ok := maybeExtractSpecialKey(parsedMsg, key)
	if !ok {
		return "<MISSING " + key + ">"
	}
	return val
}

func formatLevel(buf *buffer.Buffer, level string, style styleFn) {
	switch level {
	case "debug":
		style(buf, debugColor, "DBG")
	case "info":
		style(buf, infoColor, "INF")
	case "warn":
		style(buf, warnColor, "WRN")
	default:
		style(buf, errorColor, strings.ToUpper(level)[:3])
	}
}

func formatValue(buf *buffer.Buffer, value any, style styleFn) {
	switch v := value.(type) {
	case float64:
		fmt.Fprintf(buf, "%.22g", v) // Print integers as integers
	case bool:
		fmt.Fprintf(buf, "%#v", v)
	case nil:
		fmt.Fprint(buf, "null")
	case string:
		formatString(buf, v)
	case map[string]any:
		formatMap(buf, v, style)
	case []any:
		formatArray(buf, v, style)
	default:
		panic("unreachable")
	}
}

func formatMap(buf *buffer.Buffer, value map[string]any, style styleFn) {
	style(buf, objectPunctuationColor, "{")
	valueKeys := maps.Keys(value)
	slices.Sort(valueKeys)
	for i, field := range valueKeys {
		if i > 0 {
			style(buf, objectPunctuationColor, ", ")
		}
		style(buf, subFieldColor, field)
		style(buf, objectPunctuationColor, ":")
		buf.AppendByte(' ')
		formatValue(buf, value[field], style)
	}
	style(buf, objectPunctuationColor, "}")
}

func formatArray(buf *buffer.Buffer, value []any, style styleFn) {
	style(buf, arrayPunctuationColor, "[")
	for i, val := range value {
		if i > 0 {
			style(buf, arrayPunctuationColor, ", ")
		}
		formatValue(buf, val, style)
	}
	style(buf, arrayPunctuationColor, "]")
}

func formatString(buf *buffer.Buffer, s string) {
	if strings.Contains(s, `"`) || strings.Contains(s, `\`) {
		fmt.Fprintf(buf, "%#q", s)
		return
	}
	fmt.Fprintf(buf, "%q", s)
}

type color string

// See https://en.wikipedia.org/wiki/ANSI_escape_code#SGR_(Select_Graphic_Rendition)_parameters
const (
	reset          color = "\x1b[0m"
	bold           color = "\x1b[1m"
	italic         color = "\x1b[3m"
	fgRed          color = "\x1b[31m"
	fgGreen        color = "\x1b[32m"
	fgYellow       color = "\x1b[33m"
	fgBlue         color = "\x1b[34m"
	fgMagenta      color = "\x1b[35m"
	fgBrightYellow color = "\x1b[93m"
)

const (
	debugColor             = fgMagenta
	infoColor              = fgBlue
	warnColor              = fgYellow
	errorColor             = fgRed
	fieldColor             = fgGreen
	subFieldColor          = fgBlue
	messageColor           = bold
	callerColor            = italic
	objectPunctuationColor = fgYellow
	arrayPunctuationColor  = fgBrightYellow
)

type styleFn func(*buffer.Buffer, color, string)

var consoleStyles = map[bool]styleFn{
	true: func(buffer *buffer.Buffer, color color, text string) {
		if text != "" {
			buffer.AppendString(string(color))
			buffer.AppendString(text)
			buffer.AppendString(string(reset))
		}
	},
	false: func(buffer *buffer.Buffer, color color, text string) {
		buffer.AppendString(text)
	},
}
