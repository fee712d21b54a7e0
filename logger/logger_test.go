//-----------------------------------------------------------------------------
// Copyright (c) 2008-present Zine Team
//
// This file is part of Zine.
//
// Zine is licensed under the BSD license. Please see file LICENSE.txt for
// your rights and obligations under this license.
//
// SPDX-License-Identifier: BSD-3-Clause
// SPDX-FileCopyrightText: 2008-present Zine Team
//-----------------------------------------------------------------------------

package logger_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"zine.pocoo.org/zeml/logger"
)

func TestParseLevel(t *testing.T) {
	testcases := []struct {
		text string
		exp  logger.Level
	}{
		{"tra", logger.TraceLevel},
		{"deb", logger.DebugLevel},
		{"info", logger.InfoLevel},
		{"err", logger.ErrorLevel},
		{"manda", logger.MandatoryLevel},
		{"dis", logger.NeverLevel},
		{"d", logger.Level(0)},
	}
	for i, tc := range testcases {
		got := logger.ParseLevel(tc.text)
		if got != tc.exp {
			t.Errorf("%d: ParseLevel(%q) == %q, but got %q", i, tc.text, tc.exp, got)
		}
	}
}

type captureLogWriter struct {
	messages []string
}

func (w *captureLogWriter) WriteMessage(level logger.Level, _ time.Time, prefix, msg string, details []byte) error {
	w.messages = append(w.messages, level.Format()+" "+prefix+" "+msg+string(details))
	return nil
}

func TestLevelFiltering(t *testing.T) {
	var w captureLogWriter
	log := logger.New(&w, "parser").SetLevel(logger.ErrorLevel)
	log.Debug().Msg("dropped")
	log.Info().Msg("dropped too")
	log.Error().Str("key", "val").Msg("kept")
	if len(w.messages) != 1 {
		t.Fatalf("expected one message, got %d: %v", len(w.messages), w.messages)
	}
	for _, want := range []string{"kept", "key", "val", "parser"} {
		if !strings.Contains(w.messages[0], want) {
			t.Errorf("message %q does not contain %q", w.messages[0], want)
		}
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	var log *logger.Logger
	log.Error().Str("key", "val").Err(errors.New("boom")).Msg("into the void")
	if got := log.Level(); got != logger.NeverLevel {
		t.Errorf("nil logger level is %v", got)
	}
}

type testLogWriter struct{}

func (*testLogWriter) WriteMessage(logger.Level, time.Time, string, string, []byte) error {
	return nil
}

func BenchmarkDisabled(b *testing.B) {
	log := logger.New(&testLogWriter{}, "").SetLevel(logger.NeverLevel)
	for b.Loop() {
		log.Info().Str("key", "val").Msg("Benchmark")
	}
}

func BenchmarkStrMessage(b *testing.B) {
	log := logger.New(&testLogWriter{}, "")
	for b.Loop() {
		log.Info().Str("key", "val").Msg("Benchmark")
	}
}
