package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestLogUsableBeforeInit(t *testing.T) {
	if Log == nil {
		t.Fatal("Log must be non-nil as declared")
	}
	var buf bytes.Buffer
	Log.SetOutput(&buf)
	Log.WithField("encounter_id", "enc-1").Info("session started")
	if !strings.Contains(buf.String(), "enc-1") {
		t.Fatalf("log output missing field: %q", buf.String())
	}
}

func TestInitAppliesLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	Init()
	if Log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level is %v, want debug", Log.GetLevel())
	}
	t.Setenv("LOG_LEVEL", "bogus")
	Init()
	if Log.GetLevel() != logrus.InfoLevel {
		t.Fatalf("unparseable level fell back to %v, want info", Log.GetLevel())
	}
}
