package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
)

func TestConsoleLoggerLevel(t *testing.T) {
	is := is.New(t)
	is.Equal(consoleLogger(true).GetLevel(), zerolog.DebugLevel)
	is.Equal(consoleLogger(false).GetLevel(), zerolog.InfoLevel)
	is.Equal(zerolog.GlobalLevel(), zerolog.InfoLevel)
}

func TestProfilesWriteFiles(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()

	stop, err := startCPUProfile("")
	is.NoErr(err)
	stop()
	is.NoErr(writeMemProfile(""))

	cpu := filepath.Join(dir, "cpu.prof")
	stop, err = startCPUProfile(cpu)
	is.NoErr(err)
	stop()
	_, err = os.Stat(cpu)
	is.NoErr(err)

	mem := filepath.Join(dir, "mem.prof")
	is.NoErr(writeMemProfile(mem))
	fi, err := os.Stat(mem)
	is.NoErr(err)
	is.True(fi.Size() > 0)

	_, err = startCPUProfile(filepath.Join(dir, "missing", "cpu.prof"))
	is.True(err != nil)
}
