// Package repl implements the interactive line protocol of the laindb
// command on top of any db.KVStore.
package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/eigerco/laindb/pkg/db"
)

const (
	Prompt           = "> "
	NothingFound     = "-> (Nothing)"
	UnknownOperation = "Unknown operation"
)

// Session reads one command per line from in and writes results to out.
type Session struct {
	store db.KVStore
	in    io.Reader
	out   io.Writer
	log   zerolog.Logger
}

func NewSession(store db.KVStore, in io.Reader, out io.Writer, log zerolog.Logger) *Session {
	return &Session{store: store, in: in, out: out, log: log}
}

// Run processes commands until EXIT or the end of input. Store errors are
// reported to out and do not end the session; only I/O errors are returned.
func (s *Session) Run() error {
	reader := bufio.NewReader(s.in)
	for {
		if _, err := io.WriteString(s.out, Prompt); err != nil {
			return err
		}
		// Lines have no length limit; values may be arbitrarily large.
		line, readErr := reader.ReadString('\n')
		if line == "" && readErr != nil {
			return endOfInput(readErr)
		}
		if done, err := s.exec(strings.TrimRight(line, "\r\n")); done || err != nil {
			return err
		}
		if readErr != nil {
			return endOfInput(readErr)
		}
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Session) exec(line string) (done bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch {
	case fields[0] == "GET" && len(fields) == 2:
		value, found, err := s.store.Get(fields[1])
		if err != nil {
			return false, s.fail("GET", fields[1], err)
		}
		if !found {
			return false, s.println(NothingFound)
		}
		return false, s.println("-> " + string(value))
	case fields[0] == "PUT" && len(fields) == 3:
		if err := s.store.Put(fields[1], []byte(fields[2])); err != nil {
			return false, s.fail("PUT", fields[1], err)
		}
		return false, nil
	case fields[0] == "DEL" && len(fields) == 2:
		if err := s.store.Erase(fields[1]); err != nil {
			return false, s.fail("DEL", fields[1], err)
		}
		return false, nil
	case fields[0] == "EXIT" && len(fields) == 1:
		return true, nil
	default:
		s.log.Debug().Str("line", line).Msg("unknown operation")
		return false, s.println(UnknownOperation)
	}
}

func (s *Session) fail(op, key string, err error) error {
	s.log.Error().Err(err).Str("op", op).Str("key", key).Msg("operation failed")
	return s.println(fmt.Sprintf("Error: %v", err))
}

func (s *Session) println(line string) error {
	_, err := fmt.Fprintln(s.out, line)
	return err
}
