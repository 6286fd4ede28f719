// Copyright 2025 The ethergo Authors
// This file is part of the ethergo library.
//
// The ethergo library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The ethergo library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the ethergo library. If not, see <http://www.gnu.org/licenses/>.

package log

import (
	"bytes"
	"context"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
)

func TestTerminalHandlerOutput(t *testing.T) {
	out := new(bytes.Buffer)
	logger := NewLogger(NewTerminalHandler(out, false))
	logger.Info("import complete", "blocks", 42, "elapsed", "1.2s")

	have := out.String()
	if !strings.Contains(have, "INFO") {
		t.Errorf("missing level tag in %q", have)
	}
	if !strings.Contains(have, "import complete") {
		t.Errorf("missing message in %q", have)
	}
	if !strings.Contains(have, "blocks=42") {
		t.Errorf("missing attribute in %q", have)
	}
}

func TestTerminalHandlerLevelFilter(t *testing.T) {
	out := new(bytes.Buffer)
	logger := NewLogger(NewTerminalHandlerWithLevel(out, slog.LevelWarn, false))
	logger.Info("should be dropped")
	logger.Warn("should appear")

	have := out.String()
	if strings.Contains(have, "should be dropped") {
		t.Errorf("info record not filtered: %q", have)
	}
	if !strings.Contains(have, "should appear") {
		t.Errorf("warn record missing: %q", have)
	}
}

func TestLoggerWith(t *testing.T) {
	out := new(bytes.Buffer)
	logger := NewLogger(NewTerminalHandler(out, false))
	sub := logger.With("peer", "enode://abcd")
	sub.Info("handshake done")

	if !strings.Contains(out.String(), "peer=enode://abcd") {
		t.Errorf("context attribute missing in %q", out.String())
	}
}

func TestLoggerEnabled(t *testing.T) {
	logger := NewLogger(NewTerminalHandlerWithLevel(new(bytes.Buffer), slog.LevelError, false))
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled")
	}
	if !logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("error should be enabled")
	}
}

func TestBigValueFormatting(t *testing.T) {
	out := new(bytes.Buffer)
	logger := NewLogger(NewTerminalHandler(out, false))
	logger.Info("balances",
		"big", new(big.Int).SetUint64(1234567890),
		"u256", uint256.NewInt(99),
	)
	have := out.String()
	if !strings.Contains(have, "1234567890") {
		t.Errorf("big.Int not rendered in %q", have)
	}
	if !strings.Contains(have, "99") {
		t.Errorf("uint256 not rendered in %q", have)
	}
}

func TestDiscardHandler(t *testing.T) {
	logger := NewLogger(DiscardHandler())
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("discard handler should report disabled for all levels")
	}
	// must not panic
	logger.Crit("ignored")
}

func TestFromLegacyLevel(t *testing.T) {
	tests := []struct {
		legacy int
		want   slog.Level
	}{
		{0, LevelCrit},
		{1, slog.LevelError},
		{2, slog.LevelWarn},
		{3, slog.LevelInfo},
		{4, slog.LevelDebug},
		{5, LevelTrace},
	}
	for _, tt := range tests {
		if got := FromLegacyLevel(tt.legacy); got != tt.want {
			t.Errorf("FromLegacyLevel(%d) = %v, want %v", tt.legacy, got, tt.want)
		}
	}
}
