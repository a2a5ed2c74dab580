package log

import (
	"context"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"garbage": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	if got := RequestIDFrom(ctx); got != "req-1" {
		t.Fatalf("expected req-1, got %q", got)
	}

	generated := RequestIDFrom(WithRequestID(context.Background(), ""))
	if generated == "" {
		t.Fatal("expected a generated request id")
	}

	if RequestIDFrom(context.Background()) != "" {
		t.Fatal("expected empty id on bare context")
	}
}

func TestInitDoesNotPanic(t *testing.T) {
	l := Init(ZapConfig{Level: "error", Mode: ModeProduction, Encoding: EncodingJSON})
	l.Infof(WithRequestID(context.Background(), "x"), "hello %s", "world")
	NewNop().Error(context.Background(), "discarded")
}
