package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestWrappers_FormatOnlyWithArgs(t *testing.T) {
	var buf bytes.Buffer
	InitLogWithWriter(&buf, "test", "info")

	noArgs := "胡牌率 100%" // 变量传入，避免 vet printf 检查；测试的正是无参数时不做格式化
	Info(noArgs)
	Warn("seat=%d tile=%s", 2, "5m")
	out := buf.String()
	if !strings.Contains(out, "胡牌率 100%") || strings.Contains(out, "%!") {
		t.Fatalf("message without args was formatted: %q", out)
	}
	if !strings.Contains(out, "seat=2 tile=5m") {
		t.Fatalf("args not formatted: %q", out)
	}
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	InitLogWithWriter(&buf, "test", "warn")

	Debug("debug %d", 1)
	Info("info")
	if buf.Len() != 0 {
		t.Fatalf("below warn level was written: %q", buf.String())
	}

	SetLevel("debug")
	Debug("debug %d", 2)
	if !strings.Contains(buf.String(), "debug 2") {
		t.Fatalf("debug not written after SetLevel: %q", buf.String())
	}

	SetLevel("unknown")
	buf.Reset()
	Debug("hidden")
	Error("boom")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "boom") {
		t.Fatalf("unknown level should fall back to info: %q", buf.String())
	}
}
