/*
 * Copyright (c) SAS Institute Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package shared

import (
	"fmt"
	stdlog "log"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vnetdev/signhelpers/internal/logrotate"
)

const rfc3339Milli = "2006-01-02T15:04:05.000Z07:00"

// SetupLogging sends human-readable logs to stderr, or JSON to logFile if one
// is given. "-" means JSON on stderr.
func SetupLogging(levelName, logFile string) error {
	zerolog.TimeFieldFormat = rfc3339Milli
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	switch logFile {
	case "-":
	case "":
		logger = logger.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
		})
	default:
		w, err := logrotate.NewWriter(logFile)
		if err != nil {
			return fmt.Errorf("--log-file: %w", err)
		}
		logger = logger.Output(w)
	}
	if levelName == "" {
		levelName = zerolog.InfoLevel.String()
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.Logger = logger.Level(level)
	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)
	return nil
}
