// contains some misc helper functions etc. for seqsketch
package misc

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// ErrorCheck is a function to throw error to the log and exit the program
func ErrorCheck(msg error) {
	if msg != nil {
		log.Fatalf("terminated\n\nERROR --> %v\n\n", msg)
	}
}

// CheckRequiredFlags is a function to check for required flags before running seqsketch
func CheckRequiredFlags(flags *pflag.FlagSet) error {
	requiredError := false
	flagName := ""

	flags.VisitAll(func(flag *pflag.Flag) {
		requiredAnnotation := flag.Annotations[cobra.BashCompOneRequiredFlag]
		if len(requiredAnnotation) == 0 {
			return
		}
		flagRequired := requiredAnnotation[0] == "true"
		if flagRequired && !flag.Changed {
			requiredError = true
			flagName = flag.Name
		}
	})

	if requiredError {
		return errors.New("Required flag `" + flagName + "` has not been set")
	}

	return nil
}

// FlagValues returns every flag of the set as a "--name=value" line, skipping empty values if requested
func FlagValues(flags *pflag.FlagSet, skipEmpty bool) string {
	var sb strings.Builder
	flags.VisitAll(func(flag *pflag.Flag) {
		value := flag.Value.String()
		if skipEmpty && value == "" {
			return
		}
		fmt.Fprintf(&sb, "--%s=%s\n", flag.Name, value)
	})
	return sb.String()
}

// StartLogging is a function to start the log...
func StartLogging(logFile string) *os.File {
	logDir := filepath.Dir(logFile)
	if logDir != "." {
		if _, err := os.Stat(logDir); os.IsNotExist(err) {
			if err := os.MkdirAll(logDir, 0700); err != nil {
				log.Fatal("can't create specified directory for log")
			}
		}
	}
	logFH, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		log.Fatal(err)
	}
	return logFH
}

// CheckDir is a function to check that a directory exists
func CheckDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("no directory specified")
	}
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %v", dir)
		}
		return fmt.Errorf("can't access adirectory (check permissions): %v", dir)
	}
	return nil
}

// CheckFile is a function to check that a file can be read
func CheckFile(file string) error {
	if _, err := os.Stat(file); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %v", file)
		}
		return fmt.Errorf("can't access file (check permissions): %v", file)
	}
	return nil
}

// CheckExt is a function to check the extensions of a file
func CheckExt(file string, exts []string) error {
	splitFilename := strings.Split(file, ".")
	finalIdx := len(splitFilename) - 1
	if splitFilename[finalIdx] == "gz" {
		finalIdx--
	}
	err := fmt.Errorf("file does not have recognised extension: %v", file)
	for _, ext := range exts {
		if splitFilename[finalIdx] == ext {
			err = nil
			break
		}
	}
	return err
}

// CollectFiles returns the files in dir which have one of the given extensions
func CollectFiles(dir string, exts []string) ([]string, error) {
	if err := CheckDir(dir); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "could not list directory %v", dir)
	}
	files := []string{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if CheckExt(entry.Name(), exts) == nil {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// PrintMemUsage outputs the current, total and OS memory being used. As well as the number
// of garage collection cycles completed.
// lifted from: https://golangcode.com/print-the-current-memory-usage/
func PrintMemUsage() string {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	// For info on each, see: https://golang.org/pkg/runtime/#MemStats
	return fmt.Sprintf("[ Heap Allocations: %v, OS Memory: %v, Num. GC cycles: %v ]", humanize.Bytes(m.HeapAlloc), humanize.Bytes(m.Sys), m.NumGC)
}
