// Package message produces the text sent to the group.
package message

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rpdg/groupsend/internal/config"
)

// Fallback replaces a message that is empty after substitution.
const Fallback = "Default message - please check the config file or message file"

// Resolve returns the message for a run started at now. The contents of
// cfg.MessageFile win over cfg.Message when the file can be read.
func Resolve(cfg *config.Config, now time.Time, log zerolog.Logger) string {
	text := cfg.Message
	if cfg.MessageFile != "" {
		data, err := os.ReadFile(cfg.MessageFile)
		switch {
		case err == nil:
			text = string(data)
			log.Info().Str("file", cfg.MessageFile).Int("length", len([]rune(text))).Msg("Message read from file")
		case errors.Is(err, fs.ErrNotExist):
			log.Warn().Str("file", cfg.MessageFile).Msg("Message file does not exist, using configured message")
		default:
			log.Error().Err(err).Str("file", cfg.MessageFile).Msg("Failed to read message file, using configured message")
		}
	}

	expanded := Expand(text, now)
	if expanded != text {
		log.Debug().Str("message", expanded).Msg("Placeholders substituted")
	}
	if strings.TrimSpace(expanded) == "" {
		log.Warn().Str("message", Fallback).Msg("Message is empty, using fallback")
		return Fallback
	}
	return expanded
}

// Expand substitutes every {time}, {date}, {datetime} and {weekday}.
func Expand(text string, now time.Time) string {
	return strings.NewReplacer(
		"{time}", now.Format("15:04:05"),
		"{date}", now.Format("2006-01-02"),
		"{datetime}", now.Format("2006-01-02 15:04:05"),
		"{weekday}", now.Weekday().String(),
	).Replace(text)
}
