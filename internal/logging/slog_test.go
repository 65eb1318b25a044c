// Quadboard - Campus Events Platform
// Copyright 2026 Quadboard contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/quadboard/quadboard

package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func newCaptureSlogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).Level(zerolog.DebugLevel)
	return slog.New(&slogHandler{logger: zl}), &buf
}

func TestSlogBridgeWritesZerologJSON(t *testing.T) {
	slogger, buf := newCaptureSlogger()

	slogger.Info("supervisor started", "service", "popularity-refresher", "restarts", 2)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v", entry["level"])
	}
	if entry["message"] != "supervisor started" {
		t.Errorf("message = %v", entry["message"])
	}
	if entry["service"] != "popularity-refresher" {
		t.Errorf("service = %v", entry["service"])
	}
	if entry["restarts"] != float64(2) {
		t.Errorf("restarts = %v", entry["restarts"])
	}
}

func TestSlogBridgeLevels(t *testing.T) {
	slogger, buf := newCaptureSlogger()

	slogger.Debug("d")
	slogger.Warn("w")
	slogger.Error("e")

	out := buf.String()
	for _, level := range []string{`"level":"debug"`, `"level":"warn"`, `"level":"error"`} {
		if !strings.Contains(out, level) {
			t.Errorf("output missing %s:\n%s", level, out)
		}
	}
}

func TestSlogBridgeWithAttrsAndGroups(t *testing.T) {
	slogger, buf := newCaptureSlogger()

	slogger.With("component", "tree").WithGroup("svc").Info("restarting", "name", "http-server")

	out := buf.String()
	if !strings.Contains(out, `"component":"tree"`) {
		t.Errorf("missing With attr:\n%s", out)
	}
	if !strings.Contains(out, `"svc.name":"http-server"`) {
		t.Errorf("missing grouped attr:\n%s", out)
	}
}
